package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return NewListerWithBaseURL(apiKey, "")
}

// NewListerWithBaseURL creates a lister against an OpenAI-compatible API
func NewListerWithBaseURL(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Categorize splits model IDs into vision-capable and text-only chat
// models. Audio, speech, image and embedding models are dropped.
func Categorize(ids []string) (vision, chat []string) {
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"), strings.Contains(id, "audio"),
			strings.Contains(id, "realtime"), strings.Contains(id, "transcribe"),
			strings.Contains(id, "dall-e"), strings.Contains(id, "image"),
			strings.Contains(id, "embedding"), strings.Contains(id, "whisper"):
			continue
		case strings.HasPrefix(id, "gpt-4o"), strings.HasPrefix(id, "gpt-4.1"),
			strings.HasPrefix(id, "gpt-4-turbo"), strings.HasPrefix(id, "gpt-5"):
			vision = append(vision, id)
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			chat = append(chat, id)
		}
	}

	sort.Strings(vision)
	sort.Strings(chat)
	return vision, chat
}

// ListAvailableModels writes the usable models to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .bubbletrans.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	vision, chat := Categorize(ids)

	fmt.Fprintln(w, "Available OpenAI Models:")
	fmt.Fprintln(w, "\nVision Models (for --ocr openai and --translator openai):")
	if len(vision) == 0 {
		fmt.Fprintln(w, "  No vision models found")
	} else {
		for _, model := range vision {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}

	fmt.Fprintln(w, "\nChat Models (for --translator openai):")
	if len(chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	} else {
		for _, model := range chat {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}

	return nil
}
