package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"github.com/shin1244/BubbleTrans/internal/imaging"
	"github.com/shin1244/BubbleTrans/internal/remote"
)

type recognizeRequest struct {
	Image string `json:"image"` // base64 PNG
}

type recognizeResponse struct {
	Text *string `json:"text"`
}

// HTTPRecognizer sends crops to an OCR model service. The reference
// deployment wraps manga-ocr, which reads vertical and horizontal Japanese.
type HTTPRecognizer struct {
	client *remote.Client
	url    string
}

// NewHTTPRecognizer creates a recognizer for the service at config.URL
func NewHTTPRecognizer(config *Config) *HTTPRecognizer {
	return &HTTPRecognizer{
		client: remote.NewClient("ocr", config.Timeout, config.Logger),
		url:    config.URL,
	}
}

// Recognize posts img to the OCR service
func (r *HTTPRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	encoded, err := imaging.EncodeBase64PNG(img)
	if err != nil {
		return "", err
	}

	raw, err := r.client.PostJSON(ctx, r.url, recognizeRequest{Image: encoded}, nil)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %w", err)
	}

	var resp recognizeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("invalid OCR response: %w", err)
	}
	if resp.Text == nil {
		return "", fmt.Errorf("invalid OCR response: missing text field")
	}

	return strings.TrimSpace(*resp.Text), nil
}

// Name returns the provider name
func (r *HTTPRecognizer) Name() string {
	return "http"
}
