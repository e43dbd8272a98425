package translation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/shin1244/BubbleTrans/internal/remote"
)

// APIError is a failed call to a translation backend
type APIError struct {
	Provider   string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same request may succeed later:
// rate limiting, server errors and transport failures.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= 500
}

// IsRetryable reports whether err is worth retrying. Errors without a
// classification are treated as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return true
}

// fromRemote classifies an error returned by remote.Client
func fromRemote(provider string, err error) error {
	var statusErr *remote.StatusError
	if errors.As(err, &statusErr) {
		return &APIError{Provider: provider, StatusCode: statusErr.StatusCode, Message: statusErr.Body, Err: err}
	}
	return &APIError{Provider: provider, Message: err.Error(), Err: err}
}

// fromOpenAI classifies an error returned by the go-openai client
func fromOpenAI(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Provider: "openai", StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{Provider: "openai", StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error(), Err: err}
	}
	return &APIError{Provider: "openai", Message: err.Error(), Err: err}
}

// fromGemini classifies an error returned by the genai client. The client
// returns genai.APIError by value.
func fromGemini(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Provider: "gemini", StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &APIError{Provider: "gemini", StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message, Err: err}
	}
	return &APIError{Provider: "gemini", Message: err.Error(), Err: err}
}
