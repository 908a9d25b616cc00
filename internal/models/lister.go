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
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// Categories groups model ids by what kannadify can use them for
type Categories struct {
	Speech      []string // usable with --openai-model
	Translation []string // usable with --openai-chat-model
}

// Categorize sorts model ids into speech and translation models. Other
// models are dropped.
func Categorize(ids []string) Categories {
	var c Categories
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"):
			c.Speech = append(c.Speech, id)
		case strings.Contains(id, "audio") || strings.Contains(id, "realtime") ||
			strings.Contains(id, "transcribe") || strings.Contains(id, "search"):
			// Chat-shaped but not usable for plain text translation
		case strings.HasPrefix(id, "gpt-") || strings.HasPrefix(id, "chatgpt-") || isReasoningModel(id):
			c.Translation = append(c.Translation, id)
		}
	}
	sort.Strings(c.Speech)
	sort.Strings(c.Translation)
	return c
}

// isReasoningModel matches the o-series ids such as o1 and o3-mini
func isReasoningModel(id string) bool {
	return len(id) > 1 && id[0] == 'o' && id[1] >= '0' && id[1] <= '9'
}

// ListAvailableModels prints the speech and translation models available
// to the API key
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .kannadify.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, m := range models.Models {
		ids = append(ids, m.ID)
	}

	PrintCategories(w, Categorize(ids))
	return nil
}

// PrintCategories writes c in the --list-models format
func PrintCategories(w io.Writer, c Categories) {
	fmt.Fprintln(w, "Available OpenAI Models:")

	fmt.Fprintln(w, "\nText-to-Speech (TTS) Models:")
	if len(c.Speech) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	}
	for _, model := range c.Speech {
		fmt.Fprintf(w, "  %s\n", model)
	}

	fmt.Fprintln(w, "\nChat Models (for Kannada translation):")
	if len(c.Translation) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	for _, model := range c.Translation {
		fmt.Fprintf(w, "  %s\n", model)
	}
}
