package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shin1244/BubbleTrans/internal/remote"
)

const (
	deeplFreeURL = "https://api-free.deepl.com/v2/translate"
	deeplProURL  = "https://api.deepl.com/v2/translate"
)

type deeplRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// DeepLTranslator calls the DeepL v2 REST API
type DeepLTranslator struct {
	authKey string
	url     string
	client  *remote.Client
}

// NewDeepLTranslator creates a DeepL translator
func NewDeepLTranslator(config *Config) *DeepLTranslator {
	return &DeepLTranslator{
		authKey: config.DeepLKey,
		url:     deeplEndpoint(config.DeepLKey, config.DeepLURL),
		client:  remote.NewClient("deepl", config.Timeout, config.Logger),
	}
}

// deeplEndpoint returns override when set; keys of free accounts end in ":fx"
func deeplEndpoint(authKey, override string) string {
	if override != "" {
		return override
	}
	if strings.HasSuffix(authKey, ":fx") {
		return deeplFreeURL
	}
	return deeplProURL
}

// Translate translates text with DeepL
func (t *DeepLTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if t.authKey == "" {
		return "", fmt.Errorf("DeepL auth key not found")
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	req := deeplRequest{
		Text:       []string{text},
		SourceLang: strings.ToUpper(sourceLang),
		TargetLang: strings.ToUpper(targetLang),
	}
	headers := map[string]string{"Authorization": "DeepL-Auth-Key " + t.authKey}

	raw, err := t.client.PostJSON(ctx, t.url, req, headers)
	if err != nil {
		return "", fromRemote("deepl", err)
	}

	var resp deeplResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("invalid DeepL response: %w", err)
	}
	if len(resp.Translations) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return resp.Translations[0].Text, nil
}

// Name returns the provider name
func (t *DeepLTranslator) Name() string {
	return "deepl"
}
