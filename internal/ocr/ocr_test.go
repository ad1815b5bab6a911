package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sourcing-cli/internal/resilience"
)

func TestNewExtractorProviders(t *testing.T) {
	ext, err := NewExtractor(Config{Provider: "local"})
	require.NoError(t, err)
	assert.IsType(t, &Tesseract{}, ext)

	ext, err = NewExtractor(Config{})
	require.NoError(t, err)
	assert.IsType(t, &Tesseract{}, ext)

	ext, err = NewExtractor(Config{Provider: "remote", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &Remote{}, ext)
}

func TestNewExtractorRemoteRequiresKey(t *testing.T) {
	_, err := NewExtractor(Config{Provider: "remote"})
	assert.Error(t, err)
}

func TestNewExtractorUnknownProvider(t *testing.T) {
	_, err := NewExtractor(Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestRemoteExtractText(t *testing.T) {
	var gotAuth string
	var gotReq remoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(remoteResponse{
			Pages: []struct {
				Markdown string `json:"markdown"`
			}{
				{Markdown: "NET WT 45g"},
				{Markdown: "Made in Vietnam"},
			},
		})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "sk-test")
	text, err := r.ExtractText(context.Background(), []byte{0x89, 0x50})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "image_url", gotReq.Document.Type)
	assert.Contains(t, gotReq.Document.ImageURL, "data:image/png;base64,")
	assert.Contains(t, text, "NET WT 45g")
	assert.Contains(t, text, "Made in Vietnam")
}

func TestRemoteExtractTextTransientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, "sk-test").ExtractText(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestRemoteExtractTextPermanentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad image", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, "sk-test").ExtractText(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
	assert.Contains(t, err.Error(), "422")
}

func TestRemoteExtractTextBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, "sk-test").ExtractText(context.Background(), []byte("img"))
	assert.Error(t, err)
}

func TestRemoteDefaultEndpoint(t *testing.T) {
	r := NewRemote("", "sk-test")
	assert.Equal(t, defaultRemoteEndpoint, r.endpoint)
}

func TestTesseractMissingBinary(t *testing.T) {
	tess := NewTesseract("/nonexistent/tesseract-bin")
	_, err := tess.ExtractText(context.Background(), []byte("img"))
	assert.Error(t, err)
}
