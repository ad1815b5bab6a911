package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/extraction"
	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for report synthesis",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func buildRouter(env *env) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/reports", handleCreateReport(env))
	r.Post("/reports/{id}/synthesize", handleSynthesize(env))
	r.Get("/reports/{id}/decision", handleGetDecision(env))

	return r
}

func handleCreateReport(env *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Category    string        `json:"category"`
			ProductName string        `json:"product_name"`
			Baseline    model.Baseline `json:"baseline"`
			Signals     model.Signals  `json:"signals"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Category == "" {
			writeError(w, http.StatusBadRequest, "category is required")
			return
		}

		report := &model.Report{
			ID:          uuid.New().String(),
			Category:    req.Category,
			ProductName: req.ProductName,
			Baseline:    req.Baseline,
			Signals:     req.Signals,
		}
		if err := env.Store.CreateReport(r.Context(), report); err != nil {
			zap.L().Error("create report failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "create failed")
			return
		}
		writeJSON(w, http.StatusCreated, report)
	}
}

// handleSynthesize runs the pass synchronously: extraction is bounded
// by per-attempt timeouts, so the request finishes within the router
// timeout even when every provider stalls.
func handleSynthesize(env *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req struct {
			BarcodeImage []byte             `json:"barcode_image,omitempty"`
			LabelImage   []byte             `json:"label_image,omitempty"`
			PackageImage []byte             `json:"package_image,omitempty"`
			BoxImage     []byte             `json:"box_image,omitempty"`
			UserWeight   *model.WeightValue `json:"user_weight,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rec, err := env.Engine.Synthesize(r.Context(), id, extraction.Inputs{
			BarcodeImage: req.BarcodeImage,
			LabelImage:   req.LabelImage,
			PackageImage: req.PackageImage,
			BoxImage:     req.BoxImage,
			UserWeight:   req.UserWeight,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "report not found")
				return
			}
			zap.L().Error("synthesis failed", zap.String("report_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "synthesis failed")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func handleGetDecision(env *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rec, err := env.Store.GetDecision(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "decision not found")
				return
			}
			zap.L().Error("get decision failed", zap.String("report_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
