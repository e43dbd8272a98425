package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Dir        string
	FailFast   bool
	Archive    bool
	ListModels bool
	Verbose    bool
	Timeout    time.Duration
	Retries    int

	// Detector flags
	Detector              string
	DetectorURL           string
	DetectorModel         string
	DetectorMinConfidence float64

	// OCR flags
	OCR          string
	OCRURL       string
	OCRModel     string
	OCRGrayscale bool
	OCRMinHeight int
	OCRPadding   int

	// Translation flags
	Translator      string
	SourceLang      string
	TargetLang      string
	TranslatorModel string

	// Render subcommand
	RenderOut      string
	RenderFont     string
	RenderFontSize float64
	RenderNoText   bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Dir:           "./image",
		Timeout:       60 * time.Second,
		Retries:       3,
		Detector:      "http",
		DetectorURL:   "http://localhost:8765/detect",
		DetectorModel: "./best.pt",
		OCR:           "http",
		OCRURL:        "http://localhost:8766/ocr",
		Translator:    "deepl",
		SourceLang:    "JA",
		TargetLang:    "KO",
		RenderOut:     "./rendered",

		RenderFontSize: 18,
	}
}
