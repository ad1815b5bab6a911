package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Tesseract shells out to a local tesseract binary.
type Tesseract struct {
	binPath string
}

// NewTesseract creates a local extractor. An empty path means
// "tesseract" on PATH.
func NewTesseract(binPath string) *Tesseract {
	if binPath == "" {
		binPath = "tesseract"
	}
	return &Tesseract{binPath: binPath}
}

// ExtractText writes the image to a temp file and runs tesseract on
// it, reading the text from stdout.
func (t *Tesseract) ExtractText(ctx context.Context, image []byte) (string, error) {
	tmp, err := os.CreateTemp("", "ocr-*.png")
	if err != nil {
		return "", eris.Wrap(err, "ocr: create temp image")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", eris.Wrap(err, "ocr: write temp image")
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrap(err, "ocr: close temp image")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binPath, tmp.Name(), "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: %s failed: %s",
			filepath.Base(t.binPath), strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
