// Package ocr extracts raw text from evidence photos. Only the
// structured result contract matters to the engine; providers are
// interchangeable.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"
)

// Extractor extracts text content from an image.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Config selects and configures an OCR provider.
type Config struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	Endpoint      string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey        string `yaml:"api_key" mapstructure:"api_key"`
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg Config) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewTesseract(cfg.TesseractPath), nil
	case "remote":
		if cfg.APIKey == "" {
			return nil, eris.New("ocr: remote provider requires api_key")
		}
		return NewRemote(cfg.Endpoint, cfg.APIKey), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
