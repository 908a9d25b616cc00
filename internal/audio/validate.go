package audio

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateText checks that there is something to speak
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}

// ContainsKannada reports whether text has at least one Kannada rune
func ContainsKannada(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Kannada) {
			return true
		}
	}
	return false
}
