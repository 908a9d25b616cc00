// Package client talks to the translation server over HTTP
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"codeberg.org/snonux/kannadify/internal/history"
)

// ErrNotAudio is returned when the server answers with something other
// than audio
var ErrNotAudio = errors.New("response is not audio")

const (
	msgTranslationFailed = "Translation failed"
	msgAudioFailed       = "Audio generation failed"
)

// Client calls the translation server
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New creates a client for the server at baseURL
func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Logger:     logger,
	}
}

type textRequest struct {
	Text string `json:"text"`
}

type translateResponse struct {
	English string `json:"english"`
	Kannada string `json:"kannada"`
	Error   string `json:"error"`
}

func (c *Client) post(ctx context.Context, path, text string) (*http.Response, error) {
	body, err := json.Marshal(textRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient().Do(req)
}

// Translate asks the server for the Kannada translation of text
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	resp, err := c.post(ctx, "/translate", text)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger().Debug("translate request failed",
			zap.Int("status", resp.StatusCode), zap.String("error", result.Error))
		if result.Error != "" {
			return "", errors.New(result.Error)
		}
		return "", errors.New(msgTranslationFailed)
	}

	if result.Kannada == "" {
		return "", fmt.Errorf("server returned no translation")
	}
	return result.Kannada, nil
}

// Synthesize asks the server to speak text and returns the audio payload
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.post(ctx, "/speak-stream", text)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger().Debug("speak request failed", zap.Int("status", resp.StatusCode))
		return nil, errors.New(msgAudioFailed)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("server returned empty audio")
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "audio/") {
		return nil, fmt.Errorf("%w: got %s", ErrNotAudio, mt.String())
	}
	return data, nil
}

// History returns up to limit recent translations recorded by the server
func (c *Client) History(ctx context.Context, limit int) ([]history.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/history?limit="+strconv.Itoa(limit), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, history.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("history request failed: %s", resp.Status)
	}

	var entries []history.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
