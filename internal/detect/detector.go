package detect

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"
)

// Box is a detected text region in image pixel coordinates
type Box struct {
	Top    int
	Bottom int
	Left   int
	Right  int
	// Confidence is the detector score in 0..1, or 0 when the backend has none
	Confidence float64
}

// WellFormed reports whether the box has positive width and height.
// Detector output is not required to be well formed.
func (b Box) WellFormed() bool {
	return b.Top < b.Bottom && b.Left < b.Right
}

// Rect returns the box as an image.Rectangle without canonicalising it
func (b Box) Rect() image.Rectangle {
	return image.Rectangle{Min: image.Pt(b.Left, b.Top), Max: image.Pt(b.Right, b.Bottom)}
}

func (b Box) String() string {
	return fmt.Sprintf("(top=%d bottom=%d left=%d right=%d)", b.Top, b.Bottom, b.Left, b.Right)
}

// Detector finds text regions in a page
type Detector interface {
	// Detect returns the text boxes of img in the order the model reports them
	Detect(ctx context.Context, img image.Image) ([]Box, error)

	// Name returns the backend name
	Name() string
}

// Config selects and configures a detector backend
type Config struct {
	Backend string // "http" or "tesseract"

	// HTTP backend
	URL     string        // detection service endpoint
	Model   string        // weights file the service should load
	Timeout time.Duration // per request

	// MinConfidence drops boxes scored below it (0 keeps everything)
	MinConfidence float64

	// Tesseract backend
	Language string

	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Backend:  "http",
		URL:      "http://localhost:8765/detect",
		Model:    "./best.pt",
		Timeout:  60 * time.Second,
		Language: "jpn_vert",
	}
}

// NewDetector creates the detector backend named in config
func NewDetector(config *Config) (Detector, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Backend {
	case "http", "":
		if config.URL == "" {
			return nil, fmt.Errorf("detector URL is required")
		}
		return NewHTTPDetector(config)

	case "tesseract":
		if !TesseractAvailable {
			return nil, ErrTesseractUnavailable
		}
		return NewTesseractDetector(config), nil

	default:
		return nil, fmt.Errorf("unknown detector backend: %s", config.Backend)
	}
}
