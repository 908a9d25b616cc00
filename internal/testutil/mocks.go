package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MockTranslator mocks translation.Translator
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error

	mu    sync.Mutex
	Calls []string
}

// Translate returns the configured translation or error for text
func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
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

// Name returns the provider name
func (m *MockTranslator) Name() string {
	return "mock"
}

// CallCount returns how many translations were requested
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockSpeechProvider mocks audio.Provider by writing fixed bytes
type MockSpeechProvider struct {
	Data         []byte
	Err          error
	AvailableErr error

	mu    sync.Mutex
	Calls []string
	Files []string
}

// GenerateAudio writes Data to outputFile unless Err is set
func (m *MockSpeechProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	m.Files = append(m.Files, outputFile)
	m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	data := m.Data
	if data == nil {
		data = WAVHeader
	}
	return os.WriteFile(outputFile, data, 0644)
}

// Name returns the provider name
func (m *MockSpeechProvider) Name() string {
	return "mock"
}

// IsAvailable returns AvailableErr
func (m *MockSpeechProvider) IsAvailable() error {
	return m.AvailableErr
}

// OutputFiles returns the files GenerateAudio was asked to write
func (m *MockSpeechProvider) OutputFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Files...)
}
