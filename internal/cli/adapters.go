package cli

import (
	"io"
	"log/slog"

	"github.com/shin1244/BubbleTrans/internal/detect"
	"github.com/shin1244/BubbleTrans/internal/imaging"
	"github.com/shin1244/BubbleTrans/internal/ocr"
	"github.com/shin1244/BubbleTrans/internal/processor"
	"github.com/shin1244/BubbleTrans/internal/translation"
)

// NewLogger returns the request logger; debug records only with verbose
func NewLogger(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DetectorConfig maps flags onto the detector configuration
func DetectorConfig(flags *Flags, logger *slog.Logger) *detect.Config {
	return &detect.Config{
		Backend:       flags.Detector,
		URL:           flags.DetectorURL,
		Model:         flags.DetectorModel,
		Timeout:       flags.Timeout,
		MinConfidence: flags.DetectorMinConfidence,
		Logger:        logger,
	}
}

// OCRConfig maps flags onto the OCR configuration
func OCRConfig(flags *Flags, logger *slog.Logger) *ocr.Config {
	config := &ocr.Config{
		Provider:  flags.OCR,
		URL:       flags.OCRURL,
		Timeout:   flags.Timeout,
		OpenAIKey: GetOpenAIKey(),
		Logger:    logger,
	}
	switch flags.OCR {
	case "tesseract":
		config.Languages = flags.OCRModel
	case "openai":
		config.OpenAIModel = flags.OCRModel
	}
	return config
}

// TranslationConfig maps flags onto the translation configuration
func TranslationConfig(flags *Flags, logger *slog.Logger) *translation.Config {
	return &translation.Config{
		Provider:    flags.Translator,
		DeepLKey:    GetDeepLKey(),
		OpenAIKey:   GetOpenAIKey(),
		OpenAIModel: flags.TranslatorModel,
		GeminiKey:   GetGeminiKey(),
		GeminiModel: flags.TranslatorModel,
		Timeout:     flags.Timeout,
		Logger:      logger,
	}
}

// BuildDeps constructs the detector, recognizer and translator selected by
// flags. Missing keys and unknown backends fail here, before any page is
// read. The translator is wrapped with retries and a per-run cache.
func BuildDeps(flags *Flags, logger *slog.Logger) (processor.Deps, error) {
	var deps processor.Deps

	detector, err := detect.NewDetector(DetectorConfig(flags, logger))
	if err != nil {
		return deps, err
	}

	recognizer, err := ocr.NewRecognizer(OCRConfig(flags, logger))
	if err != nil {
		return deps, err
	}

	translator, err := translation.NewTranslator(TranslationConfig(flags, logger))
	if err != nil {
		return deps, err
	}

	retry := translation.DefaultRetryConfig()
	retry.Attempts = flags.Retries
	retry.Logger = logger

	deps.Detector = detector
	deps.Recognizer = recognizer
	deps.Translator = translation.NewCached(translation.NewResilient(translator, retry))
	return deps, nil
}

// ProcessorOptions maps flags onto the processor options
func ProcessorOptions(flags *Flags) processor.Options {
	return processor.Options{
		SourceLang: flags.SourceLang,
		TargetLang: flags.TargetLang,
		FailFast:   flags.FailFast,
		Prepare: imaging.PrepareOptions{
			Grayscale: flags.OCRGrayscale,
			MinHeight: flags.OCRMinHeight,
			Padding:   flags.OCRPadding,
		},
	}
}
