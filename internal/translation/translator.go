package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Default language pair: Japanese manga into Korean
const (
	DefaultSourceLang = "JA"
	DefaultTargetLang = "KO"
)

// Translator translates a single piece of text
type Translator interface {
	// Translate returns text translated from sourceLang into targetLang.
	// Language codes are DeepL-style ("JA", "KO", "EN-US").
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// Name returns the provider name
	Name() string
}

// Config holds configuration for translation providers
type Config struct {
	Provider string // "deepl", "openai" or "gemini"

	// DeepL
	DeepLKey string
	DeepLURL string // empty picks the free or pro endpoint from the key

	// OpenAI
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	// Gemini
	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	Timeout time.Duration
	Logger  *slog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "deepl",
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
		Timeout:     30 * time.Second,
	}
}

// NewTranslator creates the translation provider named in config
func NewTranslator(config *Config) (Translator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "deepl", "":
		if config.DeepLKey == "" {
			return nil, fmt.Errorf("DeepL auth key is required")
		}
		return NewDeepLTranslator(config), nil

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAITranslator(config), nil

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiTranslator(context.Background(), config)

	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
}

var languageNames = map[string]string{
	"JA":    "Japanese",
	"KO":    "Korean",
	"EN":    "English",
	"EN-US": "English",
	"EN-GB": "English",
	"ZH":    "Chinese",
	"DE":    "German",
	"FR":    "French",
	"ES":    "Spanish",
}

// languageName maps a DeepL language code to a name usable in a prompt
func languageName(code string) string {
	if name, ok := languageNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

func translatePrompt(text, sourceLang, targetLang string) string {
	return fmt.Sprintf("Translate the following %s manga dialogue into %s. "+
		"Respond with only the translation on a single line, nothing else.\n\n%s",
		languageName(sourceLang), languageName(targetLang), text)
}
