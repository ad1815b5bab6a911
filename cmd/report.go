package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/model"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage sourcing reports",
}

var (
	reportCategory    string
	reportName        string
	reportTargetPrice float64
	reportCostMin     float64
	reportCostBest    float64
	reportCostMax     float64
	reportMatches     int
	reportExact       int
	reportDutyMin     float64
	reportDutyMax     float64
	reportCompliance  bool
)

var reportCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a sourcing report",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		r := &model.Report{
			ID:          uuid.New().String(),
			Category:    reportCategory,
			ProductName: reportName,
			Baseline: model.Baseline{
				CostRange: model.CostRange{
					Min:  reportCostMin,
					Best: reportCostBest,
					Max:  reportCostMax,
				},
			},
			Signals: model.Signals{
				SupplierMatches: reportMatches,
				ExactMatches:    reportExact,
				DutyMinPct:      reportDutyMin,
				DutyMaxPct:      reportDutyMax,
				ComplianceRisk:  reportCompliance,
			},
		}
		if cmd.Flags().Changed("target-price") {
			r.Baseline.TargetPrice = &reportTargetPrice
		}

		if err := st.CreateReport(cmd.Context(), r); err != nil {
			return err
		}
		zap.L().Info("report created",
			zap.String("report_id", r.ID),
			zap.String("category", r.Category))

		return json.NewEncoder(os.Stdout).Encode(r)
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show a report and its decision record if one exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		r, err := st.GetReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := map[string]any{"report": r}
		if rec, err := st.GetDecision(cmd.Context(), args[0]); err == nil {
			out["decision"] = rec
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var reportListStatus string

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		reports, err := st.ListReports(cmd.Context(), model.ReportStatus(reportListStatus), 100)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	},
}

func init() {
	reportCreateCmd.Flags().StringVar(&reportCategory, "category", "", "product category")
	reportCreateCmd.Flags().StringVar(&reportName, "name", "", "product name")
	reportCreateCmd.Flags().Float64Var(&reportTargetPrice, "target-price", 0, "target sell price")
	reportCreateCmd.Flags().Float64Var(&reportCostMin, "cost-min", 0, "landed cost floor")
	reportCreateCmd.Flags().Float64Var(&reportCostBest, "cost-best", 0, "best landed cost estimate")
	reportCreateCmd.Flags().Float64Var(&reportCostMax, "cost-max", 0, "landed cost ceiling")
	reportCreateCmd.Flags().IntVar(&reportMatches, "supplier-matches", 0, "supplier match count")
	reportCreateCmd.Flags().IntVar(&reportExact, "exact-matches", 0, "exact supplier match count")
	reportCreateCmd.Flags().Float64Var(&reportDutyMin, "duty-min", 0, "duty range floor (%)")
	reportCreateCmd.Flags().Float64Var(&reportDutyMax, "duty-max", 0, "duty range ceiling (%)")
	reportCreateCmd.Flags().BoolVar(&reportCompliance, "compliance-risk", false, "flag a known compliance risk")
	reportCreateCmd.MarkFlagRequired("category")

	reportListCmd.Flags().StringVar(&reportListStatus, "status", "", "filter by status")

	reportCmd.AddCommand(reportCreateCmd, reportShowCmd, reportListCmd)
	rootCmd.AddCommand(reportCmd)
}
