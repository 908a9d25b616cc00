// Package server exposes translation and speech synthesis over HTTP.
//
// Routes:
//
//	POST /translate     {"text": "..."} -> {"english": "...", "kannada": "..."}
//	POST /speak         {"text": "..."} -> audio/wav attachment
//	POST /speak-stream  {"text": "..."} -> audio/wav inline
//	GET  /history       recent translations when history is enabled
//	GET  /ping          liveness check
package server
