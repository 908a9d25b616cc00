package translation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ErrUnavailable reports that the translation service could not produce a
// translation for the text
var ErrUnavailable = errors.New("translation service unavailable")

// Translator translates English text to Kannada
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	Name() string
}

// Config selects and configures the translation backend
type Config struct {
	Provider string // "mymemory", "openai" or "gemini"
	Timeout  time.Duration

	MyMemoryURL   string
	MyMemoryEmail string // optional, raises the anonymous daily quota

	OpenAIKey   string
	OpenAIModel string

	GeminiKey   string
	GeminiModel string

	BreakerFailures uint32        // consecutive failures before the breaker opens
	BreakerTimeout  time.Duration // how long the breaker stays open
}

// DefaultConfig returns the keyless MyMemory configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:        "mymemory",
		Timeout:         10 * time.Second,
		MyMemoryURL:     DefaultMyMemoryURL,
		OpenAIModel:     openai.GPT4oMini,
		GeminiModel:     "gemini-2.0-flash",
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// New builds the translator chain: cache, circuit breaker, provider.
// lookup may be nil.
func New(ctx context.Context, config *Config, lookup Lookup) (Translator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var provider Translator
	switch config.Provider {
	case "", "mymemory":
		provider = NewMyMemoryTranslator(config.MyMemoryURL, config.MyMemoryEmail, config.Timeout)
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found")
		}
		provider = NewOpenAITranslator(config.OpenAIKey, config.OpenAIModel)
	case "gemini":
		gemini, err := NewGeminiTranslator(ctx, config.GeminiKey, config.GeminiModel)
		if err != nil {
			return nil, err
		}
		provider = gemini
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}

	breaker := NewBreakerTranslator(provider, config.BreakerFailures, config.BreakerTimeout)
	return NewCachedTranslator(breaker, NewTranslationCache(), lookup), nil
}

// OpenAITranslator translates with an OpenAI chat model
type OpenAITranslator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAITranslator creates a new translator instance
func NewOpenAITranslator(apiKey, model string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

// Translate translates English text to Kannada
func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You translate English into natural, everyday Kannada (ಕನ್ನಡ) written in Kannada script.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Translate the following English text to Kannada. Respond with only the Kannada translation, nothing else.\n\n%s", text),
			},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no translation returned", ErrUnavailable)
	}

	translation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translation == "" {
		return "", fmt.Errorf("%w: empty translation", ErrUnavailable)
	}
	return translation, nil
}

// Name returns the provider name
func (t *OpenAITranslator) Name() string {
	return "openai"
}

// AppendTranslation appends "english = kannada" to a translations file
func AppendTranslation(path, english, kannada string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open translation file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s = %s\n", english, kannada); err != nil {
		return fmt.Errorf("failed to write translation file: %w", err)
	}
	return nil
}
