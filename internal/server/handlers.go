package server

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"codeberg.org/snonux/kannadify/internal/history"
)

const (
	msgEnterText   = "Please enter text"
	msgProvideText = "Please provide text"
	msgUnavailable = "Translation service temporarily unavailable. Please try again."

	audioFileName = "kannada_audio.wav"
)

var errEmptyAudio = errors.New("speech provider produced no audio")

type textRequest struct {
	Text string `json:"text"`
}

type translateResponse struct {
	English string `json:"english"`
	Kannada string `json:"kannada"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeText reads the request body and returns the trimmed text field
func decodeText(r *http.Request) (string, error) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	return strings.TrimSpace(req.Text), nil
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	english, err := decodeText(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if english == "" {
		writeError(w, http.StatusBadRequest, msgEnterText)
		return
	}

	kannada, err := s.translator.Translate(r.Context(), english)
	if err != nil {
		s.logger.Warn("translation failed", zap.String("text", english), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
		return
	}
	// An echo of the input means the provider did not translate
	if kannada == "" || kannada == english {
		s.logger.Warn("translation returned no usable result", zap.String("text", english))
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
		return
	}

	if s.history != nil {
		_, err := s.history.Record(r.Context(), history.Entry{
			English:  english,
			Kannada:  kannada,
			Provider: s.translator.Name(),
		})
		if err != nil {
			s.logger.Warn("failed to record history", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, translateResponse{English: english, Kannada: kannada})
}

func (s *Server) handleSpeak(attachment bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := decodeText(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if text == "" {
			writeError(w, http.StatusBadRequest, msgProvideText)
			return
		}

		data, err := s.synthesize(r, text)
		if err != nil {
			s.logger.Warn("speech synthesis failed", zap.String("provider", s.speech.Name()), zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "audio/wav")
		if attachment {
			w.Header().Set("Content-Disposition", `attachment; filename="`+audioFileName+`"`)
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// synthesize renders text into a temporary WAV file and returns its bytes.
// The file is removed in every case.
func (s *Server) synthesize(r *http.Request, text string) ([]byte, error) {
	tmp, err := os.CreateTemp(s.config.TempDir, "kannadify-*.wav")
	if err != nil {
		return nil, err
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := s.speech.GenerateAudio(r.Context(), text, path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errEmptyAudio
	}
	return data, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := history.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
