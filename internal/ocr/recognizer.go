package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"
)

// Recognizer turns a cropped text region into a string
type Recognizer interface {
	// Recognize returns the text in img; an empty string means no text was found
	Recognize(ctx context.Context, img image.Image) (string, error)

	// Name returns the provider name
	Name() string
}

// Config holds configuration for OCR providers
type Config struct {
	Provider string // "http", "tesseract" or "openai"

	// HTTP provider (a manga-ocr service)
	URL     string
	Timeout time.Duration

	// Tesseract provider
	Languages string // e.g. "jpn_vert+jpn"

	// OpenAI provider
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string // empty uses the public API

	Logger *slog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "http",
		URL:         "http://localhost:8766/ocr",
		Timeout:     60 * time.Second,
		Languages:   "jpn_vert+jpn",
		OpenAIModel: "gpt-4o-mini",
	}
}

// NewRecognizer creates the OCR provider named in config
func NewRecognizer(config *Config) (Recognizer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "http", "":
		if config.URL == "" {
			return nil, fmt.Errorf("OCR service URL is required")
		}
		return NewHTTPRecognizer(config), nil

	case "tesseract":
		if !TesseractAvailable {
			return nil, ErrTesseractUnavailable
		}
		return NewTesseractRecognizer(config), nil

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIRecognizer(config), nil

	default:
		return nil, fmt.Errorf("unknown OCR provider: %s", config.Provider)
	}
}
