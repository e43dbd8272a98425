package viewer

import (
	"io"
	"os"
)

// Config holds viewer configuration
type Config struct {
	Dir string

	// Font and FontSize select the face of the label overlay; see
	// render.OverlayFace
	Font     string
	FontSize float64

	// Warnings about the overlay font go to Warn
	Warn io.Writer
}

// DefaultConfig returns default viewer configuration
func DefaultConfig() *Config {
	return &Config{
		Dir:      "./image",
		FontSize: 18,
		Warn:     os.Stderr,
	}
}
