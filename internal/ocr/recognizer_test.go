package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func createInMemoryImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestNewRecognizer(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantName string
		wantErr  bool
	}{
		{"nil config uses defaults", nil, "http", false},
		{"http", &Config{Provider: "http", URL: "http://localhost:1"}, "http", false},
		{"http without url", &Config{Provider: "http"}, "", true},
		{"tesseract", &Config{Provider: "tesseract"}, "tesseract", !TesseractAvailable},
		{"openai", &Config{Provider: "openai", OpenAIKey: "test-key"}, "openai", false},
		{"openai without key", &Config{Provider: "openai"}, "", true},
		{"unknown", &Config{Provider: "paddle"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecognizer(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRecognizer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && r.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", r.Name(), tt.wantName)
			}
		})
	}
}

func TestHTTPRecognizer_Recognize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req recognizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
			t.Errorf("Expected base64 image in request, err=%v", err)
		}
		w.Write([]byte(`{"text": " こんにちは\n"}`))
	}))
	defer server.Close()

	r := NewHTTPRecognizer(&Config{URL: server.URL})
	text, err := r.Recognize(context.Background(), createInMemoryImage(20, 40))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "こんにちは" {
		t.Errorf("Recognize() = %q, want こんにちは", text)
	}
}

func TestHTTPRecognizer_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": ""}`))
	}))
	defer server.Close()

	r := NewHTTPRecognizer(&Config{URL: server.URL})
	text, err := r.Recognize(context.Background(), createInMemoryImage(5, 5))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty text, got %q", text)
	}
}

func TestHTTPRecognizer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"not json", http.StatusOK, "こんにちは"},
		{"missing text", http.StatusOK, `{"result": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			r := NewHTTPRecognizer(&Config{URL: server.URL})
			if _, err := r.Recognize(context.Background(), createInMemoryImage(5, 5)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestOpenAIRecognizer_Recognize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		raw, _ := json.Marshal(body["messages"])
		if !strings.Contains(string(raw), "data:image/png;base64,") {
			t.Error("Expected the crop as a PNG data URL")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"おはよう\n"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	r := NewOpenAIRecognizer(&Config{OpenAIKey: "test-key", OpenAIBaseURL: server.URL + "/v1"})
	text, err := r.Recognize(context.Background(), createInMemoryImage(10, 10))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "おはよう" {
		t.Errorf("Recognize() = %q, want おはよう", text)
	}
}

func TestOpenAIRecognizer_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	r := NewOpenAIRecognizer(&Config{OpenAIKey: apiKey})
	if _, err := r.Recognize(context.Background(), createInMemoryImage(32, 32)); err != nil {
		t.Errorf("Recognize failed: %v", err)
	}
}

func TestJoinLines(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"こんにちは", "こんにちは"},
		{"こんに\nちは\n", "こんにちは"},
		{" 元気 \n\n です", "元気です"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := joinLines(tt.input); got != tt.want {
			t.Errorf("joinLines(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewTesseractRecognizer_Languages(t *testing.T) {
	r := NewTesseractRecognizer(&Config{})
	if len(r.languages) != 2 || r.languages[0] != "jpn_vert" || r.languages[1] != "jpn" {
		t.Errorf("Unexpected default languages: %v", r.languages)
	}
}

func TestTesseractRecognizer_Unavailable(t *testing.T) {
	if TesseractAvailable {
		t.Skip("built with tesseract support")
	}

	r := NewTesseractRecognizer(&Config{})
	_, err := r.Recognize(context.Background(), createInMemoryImage(10, 10))
	if !errors.Is(err, ErrTesseractUnavailable) {
		t.Errorf("Expected ErrTesseractUnavailable, got %v", err)
	}
}
