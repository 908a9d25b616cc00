package batch

import (
	"fmt"
	"os"
	"strings"
)

// TextEntry is one line of a batch file
type TextEntry struct {
	Line    int    // 1-based line number in the batch file
	English string
	// Kannada is a translation supplied in the file; empty means translate
	Kannada string
}

// NeedsTranslation reports whether the entry has no supplied translation
func (e TextEntry) NeedsTranslation() bool {
	return e.Kannada == ""
}

// ReadBatchFile reads English texts from a file.
// Supported line formats:
//   - English only: "good morning" (will be translated)
//   - With translation: "good morning = ಶುಭೋದಯ" (translation is used as is)
//
// Blank lines and lines starting with '#' are skipped.
func ReadBatchFile(filename string) ([]TextEntry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseBatch(string(content)), nil
}

// ParseBatch parses batch file content
func ParseBatch(content string) []TextEntry {
	var entries []TextEntry

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := TextEntry{Line: i + 1, English: line}
		if english, kannada, ok := strings.Cut(line, "="); ok {
			entry.English = strings.TrimSpace(english)
			entry.Kannada = strings.TrimSpace(kannada)
		}

		// Lines with an empty English part carry nothing to speak
		if entry.English == "" {
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}
