package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// DownloadFileName is the fixed name under which synthesized audio is saved.
const DownloadFileName = "kannada_translation.wav"

// TextKey returns a short stable key for a piece of text.
// Format: md5(normalized text)[:12]
func TextKey(text string) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(text))))
	return hex.EncodeToString(hash[:])[:12]
}

// NumberedFileName builds names like "003_hello_world.wav" for batch output
func NumberedFileName(index int, text, ext string) string {
	name := SanitizeFilename(text)
	if len([]rune(name)) > 40 {
		name = string([]rune(name)[:40])
	}
	name = strings.Trim(name, "_")
	if name == "" {
		name = TextKey(text)
	}
	return fmt.Sprintf("%03d_%s%s", index, name, ext)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric accepts ASCII letters and digits plus the Kannada block
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || unicode.In(r, unicode.Kannada)
}
