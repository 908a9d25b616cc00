package internal

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"hello world", "hello_world"},
		{"ಹಲೋ", "ಹಲೋ"},
		{"a/b\\c", "a_b_c"},
		{"snake_case-name", "snake_case-name"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumberedFileName(t *testing.T) {
	if got := NumberedFileName(3, "Good morning!", ".wav"); got != "003_Good_morning.wav" {
		t.Errorf("unexpected name %q", got)
	}

	// Only punctuation falls back to the text key
	got := NumberedFileName(1, "?!", ".wav")
	want := "001_" + TextKey("?!") + ".wav"
	if got != want {
		t.Errorf("NumberedFileName = %q, want %q", got, want)
	}
}

func TestTextKey(t *testing.T) {
	if TextKey("Hello ") != TextKey("hello") {
		t.Error("TextKey should ignore case and surrounding whitespace")
	}
	if len(TextKey("hello")) != 12 {
		t.Errorf("expected 12 character key, got %q", TextKey("hello"))
	}
}
