package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Translator", flags.Translator, "mymemory"},
		{"OpenAIChat", flags.OpenAIChat, "gpt-4o-mini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.0-flash"},
		{"AudioProvider", flags.AudioProvider, "openai"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini-tts"},
		{"OpenAIVoice", flags.OpenAIVoice, "nova"},
		{"OpenAISpeed", flags.OpenAISpeed, 1.0},
		{"ESpeakVoice", flags.ESpeakVoice, "kn"},
		{"Addr", flags.Addr, ":5000"},
		{"RateLimit", flags.RateLimit, 60},
		{"HistoryLimit", flags.HistoryLimit, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	boolTests := []struct {
		name  string
		value bool
	}{
		{"ListModels", flags.ListModels},
		{"Archive", flags.Archive},
		{"Verbose", flags.Verbose},
		{"NoHistory", flags.NoHistory},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"OutputDir", flags.OutputDir},
		{"BatchFile", flags.BatchFile},
		{"BackendURL", flags.BackendURL},
		{"OpenAIInstruction", flags.OpenAIInstruction},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}
}
