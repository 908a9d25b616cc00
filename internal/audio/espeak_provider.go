package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// ESpeakProvider implements Provider interface for espeak-ng
type ESpeakProvider struct {
	espeak *ESpeak
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *ESpeakConfig) (Provider, error) {
	espeak, err := New(config)
	if err != nil {
		return nil, err
	}
	return &ESpeakProvider{espeak: espeak}, nil
}

// GenerateAudio generates WAV audio using espeak-ng. Other extensions are
// rejected since espeak-ng only writes WAV.
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	ext := strings.ToLower(filepath.Ext(outputFile))
	switch ext {
	case ".wav":
	case "":
		outputFile += ".wav"
	default:
		return fmt.Errorf("espeak-ng cannot produce %s output", ext)
	}
	return p.espeak.GenerateWAV(ctx, text, outputFile)
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}
