package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"codeberg.org/snonux/kannadify/internal/history"
	"codeberg.org/snonux/kannadify/internal/server"
	"codeberg.org/snonux/kannadify/internal/testutil"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"english":"hello","kannada":"ಹಲೋ"}`,
			want:   "ಹಲೋ",
		},
		{
			name:    "server error message",
			status:  http.StatusServiceUnavailable,
			body:    `{"error":"Translation service temporarily unavailable. Please try again."}`,
			wantErr: "Translation service temporarily unavailable. Please try again.",
		},
		{
			name:    "error without message",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantErr: "Translation failed",
		},
		{
			name:    "missing translation",
			status:  http.StatusOK,
			body:    `{"english":"hello"}`,
			wantErr: "server returned no translation",
		},
		{
			name:    "not json",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotText string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/translate" || r.Method != http.MethodPost {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var req struct {
					Text string `json:"text"`
				}
				json.NewDecoder(r.Body).Decode(&req)
				gotText = req.Text

				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := New(srv.URL+"/", nil).Translate(context.Background(), "hello")
			if gotText != "hello" {
				t.Errorf("server received %q, want hello", gotText)
			}
			if tt.wantErr == "*" {
				if err == nil {
					t.Fatal("Translate() should fail on a non-JSON body")
				}
				return
			}
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Translate() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Translate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Translate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       []byte
		wantErr    string
		wantNotWAV bool
	}{
		{name: "wav", status: http.StatusOK, body: testutil.WAVHeader},
		{name: "server error", status: http.StatusInternalServerError, body: []byte(`{"error":"x"}`), wantErr: "Audio generation failed"},
		{name: "empty", status: http.StatusOK, body: nil, wantErr: "empty audio"},
		{name: "not audio", status: http.StatusOK, body: []byte("<html><body>oops</body></html>"), wantNotWAV: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/speak-stream" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write(tt.body)
			}))
			defer srv.Close()

			data, err := New(srv.URL, nil).Synthesize(context.Background(), "ಹಲೋ")
			switch {
			case tt.wantNotWAV:
				if !errors.Is(err, ErrNotAudio) {
					t.Errorf("Synthesize() error = %v, want ErrNotAudio", err)
				}
			case tt.wantErr != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Synthesize() error = %v, want containing %q", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("Synthesize() error = %v", err)
				}
				if string(data) != string(tt.body) {
					t.Errorf("Synthesize() returned %d bytes, want %d", len(data), len(tt.body))
				}
			}
		})
	}
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(url, nil).Translate(context.Background(), "hello"); err == nil {
		t.Error("Translate() against closed server should fail")
	}
}

func TestAgainstServer(t *testing.T) {
	translator := &testutil.MockTranslator{Translations: map[string]string{"thank you": "ಧನ್ಯವಾದ"}}
	s := server.New(&server.Config{TempDir: t.TempDir()}, translator, &testutil.MockSpeechProvider{}, nil, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := New(srv.URL, nil)
	ctx := context.Background()

	kannada, err := c.Translate(ctx, "thank you")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if kannada != "ಧನ್ಯವಾದ" {
		t.Errorf("Translate() = %q", kannada)
	}

	if _, err := c.Translate(ctx, "   "); err == nil || err.Error() != "Please enter text" {
		t.Errorf("Translate(blank) error = %v, want Please enter text", err)
	}

	audio, err := c.Synthesize(ctx, kannada)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(audio) != len(testutil.WAVHeader) {
		t.Errorf("Synthesize() returned %d bytes", len(audio))
	}
}

func TestHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	translator := &testutil.MockTranslator{Translations: map[string]string{"water": "ನೀರು"}}
	s := server.New(&server.Config{TempDir: t.TempDir()}, translator, &testutil.MockSpeechProvider{}, store, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := New(srv.URL, nil)
	ctx := context.Background()
	if _, err := c.Translate(ctx, "water"); err != nil {
		t.Fatal(err)
	}

	entries, err := c.History(ctx, 5)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Kannada != "ನೀರು" {
		t.Errorf("History() = %+v", entries)
	}
}

func TestHistoryDisabled(t *testing.T) {
	s := server.New(nil, &testutil.MockTranslator{}, &testutil.MockSpeechProvider{}, nil, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, err := New(srv.URL, nil).History(context.Background(), 5)
	if !errors.Is(err, history.ErrNotFound) {
		t.Errorf("History() error = %v, want history.ErrNotFound", err)
	}
}
