package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/shin1244/BubbleTrans/internal/imaging"
)

const transcribePrompt = "This image is a single speech bubble or caption cut from a Japanese manga page. " +
	"Transcribe the Japanese text exactly as written, reading vertical columns right to left. " +
	"Respond with only the text, without translation or commentary. Respond with nothing if there is no text."

// OpenAIRecognizer transcribes crops with a vision-capable chat model
type OpenAIRecognizer struct {
	client *openai.Client
	model  string
}

// NewOpenAIRecognizer creates a new OpenAI vision recognizer
func NewOpenAIRecognizer(config *Config) *OpenAIRecognizer {
	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	model := config.OpenAIModel
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIRecognizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

// Recognize sends img as a data URL and returns the transcription
func (r *OpenAIRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	encoded, err := imaging.EncodeBase64PNG(img)
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: transcribePrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    "data:image/png;base64," + encoded,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		MaxTokens:   300,
		Temperature: 0,
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no transcription returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name returns the provider name
func (r *OpenAIRecognizer) Name() string {
	return "openai"
}
