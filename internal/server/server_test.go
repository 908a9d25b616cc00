package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"codeberg.org/snonux/kannadify/internal/history"
	"codeberg.org/snonux/kannadify/internal/testutil"
	"codeberg.org/snonux/kannadify/internal/translation"
)

func newTestServer(t *testing.T, hist History) (*Server, *testutil.MockTranslator, *testutil.MockSpeechProvider) {
	t.Helper()

	translator := &testutil.MockTranslator{
		Translations: map[string]string{"hello": "ಹಲೋ", "same": "same"},
		Errors:       map[string]error{"boom": errors.New("provider down")},
	}
	speech := &testutil.MockSpeechProvider{}
	cfg := &Config{RateLimit: 0, TempDir: t.TempDir()}
	return New(cfg, translator, speech, hist, nil), translator, speech
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var e errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("body %q is not an error object: %v", rec.Body.String(), err)
	}
	return e.Error
}

func TestPing(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	rec := do(t, s.Handler(), http.MethodGet, "/ping", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("GET /ping = %d %q, want 200 pong", rec.Code, rec.Body.String())
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantResult *translateResponse
	}{
		{
			name:       "success",
			body:       `{"text":"  hello  "}`,
			wantStatus: http.StatusOK,
			wantResult: &translateResponse{English: "hello", Kannada: "ಹಲೋ"},
		},
		{
			name:       "empty text",
			body:       `{"text":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  msgEnterText,
		},
		{
			name:       "missing text",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  msgEnterText,
		},
		{
			name:       "provider error",
			body:       `{"text":"boom"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantError:  msgUnavailable,
		},
		{
			name:       "echoed input",
			body:       `{"text":"same"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantError:  msgUnavailable,
		},
		{
			name:       "invalid json",
			body:       `{"text":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestServer(t, nil)
			rec := do(t, s.Handler(), http.MethodPost, "/translate", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantError != "" {
				if got := decodeError(t, rec); got != tt.wantError {
					t.Errorf("error = %q, want %q", got, tt.wantError)
				}
			}
			if tt.wantResult != nil {
				var got translateResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatal(err)
				}
				if got != *tt.wantResult {
					t.Errorf("response = %+v, want %+v", got, *tt.wantResult)
				}
			}
		})
	}
}

func TestTranslateRecordsHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	s, _, _ := newTestServer(t, store)
	h := s.Handler()

	if rec := do(t, h, http.MethodPost, "/translate", `{"text":"hello"}`); rec.Code != http.StatusOK {
		t.Fatalf("translate status = %d", rec.Code)
	}
	// Failures are not recorded
	do(t, h, http.MethodPost, "/translate", `{"text":"boom"}`)

	rec := do(t, h, http.MethodGet, "/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /history status = %d", rec.Code)
	}
	var entries []history.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("history has %d entries, want 1", len(entries))
	}
	if entries[0].English != "hello" || entries[0].Kannada != "ಹಲೋ" || entries[0].Provider != "mock" {
		t.Errorf("entry = %+v", entries[0])
	}
}

// echoOnce echoes the input on its first call and translates afterwards
type echoOnce struct {
	calls int
}

func (e *echoOnce) Translate(ctx context.Context, text string) (string, error) {
	e.calls++
	if e.calls == 1 {
		return text, nil
	}
	return "ಹಲೋ", nil
}

func (e *echoOnce) Name() string { return "echo-once" }

func TestTranslateRetryAfterEcho(t *testing.T) {
	upstream := &echoOnce{}
	translator := translation.NewCachedTranslator(upstream, nil, nil)
	s := New(&Config{TempDir: t.TempDir()}, translator, &testutil.MockSpeechProvider{}, nil, nil)
	h := s.Handler()

	if rec := do(t, h, http.MethodPost, "/translate", `{"text":"hello"}`); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("echo status = %d, want 503", rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/translate", `{"text":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("retry status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ಹಲೋ") {
		t.Errorf("retry body = %s", rec.Body.String())
	}
	if upstream.calls != 2 {
		t.Errorf("upstream calls = %d, want 2", upstream.calls)
	}
}

func TestHistoryDisabled(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	rec := do(t, s.Handler(), http.MethodGet, "/history", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /history without store = %d, want 404", rec.Code)
	}
}

func TestHistoryBadLimit(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	s, _, _ := newTestServer(t, store)
	for _, q := range []string{"abc", "0", "-3"} {
		rec := do(t, s.Handler(), http.MethodGet, "/history?limit="+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s status = %d, want 400", q, rec.Code)
		}
	}
}

func TestSpeak(t *testing.T) {
	tests := []struct {
		path            string
		wantDisposition string
	}{
		{"/speak", `attachment; filename="kannada_audio.wav"`},
		{"/speak-stream", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			s, _, speech := newTestServer(t, nil)
			rec := do(t, s.Handler(), http.MethodPost, tt.path, `{"text":" ಹಲೋ "}`)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "audio/wav" {
				t.Errorf("Content-Type = %q, want audio/wav", ct)
			}
			if cd := rec.Header().Get("Content-Disposition"); cd != tt.wantDisposition {
				t.Errorf("Content-Disposition = %q, want %q", cd, tt.wantDisposition)
			}
			if !bytes.Equal(rec.Body.Bytes(), testutil.WAVHeader) {
				t.Errorf("body = %v, want WAV header", rec.Body.Bytes())
			}

			if len(speech.Calls) != 1 || speech.Calls[0] != "ಹಲೋ" {
				t.Errorf("speech calls = %v, want [ಹಲೋ]", speech.Calls)
			}
			for _, f := range speech.OutputFiles() {
				if filepath.Ext(f) != ".wav" {
					t.Errorf("temp file %s should have .wav extension", f)
				}
				testutil.AssertFileNotExists(t, f)
			}
		})
	}
}

func TestSpeakErrors(t *testing.T) {
	s, _, speech := newTestServer(t, nil)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/speak", `{"text":""}`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec) != msgProvideText {
		t.Errorf("empty text = %d %q", rec.Code, rec.Body.String())
	}

	speech.Err = errors.New("engine crashed")
	rec = do(t, h, http.MethodPost, "/speak", `{"text":"ಹಲೋ"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("provider failure status = %d, want 500", rec.Code)
	}
	if got := decodeError(t, rec); got != "engine crashed" {
		t.Errorf("error = %q, want engine crashed", got)
	}
	for _, f := range speech.OutputFiles() {
		testutil.AssertFileNotExists(t, f)
	}

	speech.Err = nil
	speech.Data = []byte{}
	rec = do(t, h, http.MethodPost, "/speak-stream", `{"text":"ಹಲೋ"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("empty audio status = %d, want 500", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	translator := &testutil.MockTranslator{Translations: map[string]string{"hello": "ಹಲೋ"}}
	s := New(&Config{RateLimit: 2}, translator, &testutil.MockSpeechProvider{}, nil, nil)
	h := s.Handler()

	var last int
	for i := 0; i < 3; i++ {
		last = do(t, h, http.MethodPost, "/translate", `{"text":"hello"}`).Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}

	// Ping is not limited
	if rec := do(t, h, http.MethodGet, "/ping", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /ping status = %d after limit", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/translate", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("GET /ping: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
