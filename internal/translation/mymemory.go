package translation

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DefaultMyMemoryURL is the public MyMemory endpoint. It needs no API key.
const DefaultMyMemoryURL = "https://api.mymemory.translated.net"

const langPair = "en|kn"

// MyMemoryTranslator uses the MyMemory translation memory API
type MyMemoryTranslator struct {
	baseURL string
	email   string
	client  *http.Client
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// responseStatus is a number on success and sometimes a string on errors
	ResponseStatus  any    `json:"responseStatus"`
	ResponseDetails string `json:"responseDetails"`
}

// NewMyMemoryTranslator creates a MyMemory client
func NewMyMemoryTranslator(baseURL, email string, timeout time.Duration) *MyMemoryTranslator {
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MyMemoryTranslator{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		client:  &http.Client{Timeout: timeout},
	}
}

// Translate translates English text to Kannada
func (m *MyMemoryTranslator) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", langPair)
	if m.email != "" {
		params.Set("de", m.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/get?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("MyMemory request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read MyMemory response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: MyMemory returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var result myMemoryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode MyMemory response: %w", err)
	}

	if status := fmt.Sprint(result.ResponseStatus); status != "200" {
		return "", fmt.Errorf("%w: MyMemory status %s: %s", ErrUnavailable, status, result.ResponseDetails)
	}

	translated := strings.TrimSpace(html.UnescapeString(result.ResponseData.TranslatedText))
	if translated == "" {
		return "", fmt.Errorf("%w: empty translation", ErrUnavailable)
	}
	return translated, nil
}

// Name returns the provider name
func (m *MyMemoryTranslator) Name() string {
	return "mymemory"
}
