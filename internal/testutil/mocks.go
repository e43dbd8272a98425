package testutil

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/shin1244/BubbleTrans/internal/detect"
)

// MockDetector mocks a text region detector
type MockDetector struct {
	// Boxes are returned for every page unless BySize has an entry for
	// the page's dimensions
	Boxes  []detect.Box
	BySize map[image.Point][]detect.Box
	Err    error

	mu    sync.Mutex
	Calls []image.Point
}

// Detect mocks detecting regions in img
func (m *MockDetector) Detect(ctx context.Context, img image.Image) ([]detect.Box, error) {
	size := img.Bounds().Size()
	m.mu.Lock()
	m.Calls = append(m.Calls, size)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if boxes, ok := m.BySize[size]; ok {
		return boxes, nil
	}
	return m.Boxes, nil
}

// Name returns the mock name
func (m *MockDetector) Name() string {
	return "mock"
}

// MockRecognizer mocks OCR. Calls are numbered from 0 across all pages.
type MockRecognizer struct {
	Texts  []string      // returned by call number; default "text N"
	Errors map[int]error // by call number

	mu    sync.Mutex
	Calls []image.Point // crop sizes
}

// Recognize mocks recognizing the text in img
func (m *MockRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	m.mu.Lock()
	n := len(m.Calls)
	m.Calls = append(m.Calls, img.Bounds().Size())
	m.mu.Unlock()

	if err, ok := m.Errors[n]; ok {
		return "", err
	}
	if n < len(m.Texts) {
		return m.Texts[n], nil
	}
	return fmt.Sprintf("text %d", n), nil
}

// Name returns the mock name
func (m *MockRecognizer) Name() string {
	return "mock"
}

// MockTranslator mocks translation service
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error

	mu    sync.Mutex
	Calls []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	call := fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang)
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("mock translation of %s", text), nil
}

// Name returns the mock name
func (m *MockTranslator) Name() string {
	return "mock"
}
