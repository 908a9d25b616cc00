package cli

import (
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/kannadify/internal/audio"
	"codeberg.org/snonux/kannadify/internal/server"
	"codeberg.org/snonux/kannadify/internal/translation"
)

// NewLogger builds the application logger. Verbose runs get a development
// logger at debug level, others a production logger at level.
func NewLogger(verbose bool, level zapcore.Level) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// TranslationConfig assembles the translator settings from flags, config
// file and environment
func TranslationConfig() *translation.Config {
	cfg := translation.DefaultConfig()

	if v := viper.GetString("translation.provider"); v != "" {
		cfg.Provider = v
	}
	if v := viper.GetString("translation.mymemory_url"); v != "" {
		cfg.MyMemoryURL = v
	}
	cfg.MyMemoryEmail = viper.GetString("translation.mymemory_email")
	if v := viper.GetString("translation.openai_model"); v != "" {
		cfg.OpenAIModel = v
	}
	if v := viper.GetString("translation.gemini_model"); v != "" {
		cfg.GeminiModel = v
	}
	if v := viper.GetDuration("translation.timeout"); v > 0 {
		cfg.Timeout = v
	}
	cfg.OpenAIKey = GetOpenAIKey()
	cfg.GeminiKey = GetGeminiKey()

	return cfg
}

// AudioConfig assembles the speech provider settings
func AudioConfig(logger *zap.Logger) *audio.Config {
	cfg := audio.DefaultProviderConfig()

	if v := viper.GetString("audio.provider"); v != "" {
		cfg.Provider = v
	}
	cfg.Fallback = viper.GetString("audio.fallback")
	if v := viper.GetString("audio.openai_model"); v != "" {
		cfg.OpenAIModel = v
	}
	if v := viper.GetString("audio.openai_voice"); v != "" {
		cfg.OpenAIVoice = v
	}
	if v := viper.GetFloat64("audio.openai_speed"); v > 0 {
		cfg.OpenAISpeed = v
	}
	if v := viper.GetString("audio.openai_instruction"); v != "" {
		cfg.OpenAIInstruction = v
	}
	if v := viper.GetString("audio.espeak_voice"); v != "" {
		if !audio.IsKnownVoice(v) && logger != nil {
			logger.Warn("unknown espeak-ng voice, passing it through",
				zap.String("voice", v), zap.Strings("known", audio.ListVoices()))
		}
		cfg.ESpeak.Voice = v
	}
	if v := viper.GetInt("audio.espeak_speed"); v > 0 {
		cfg.ESpeak.Speed = v
	}
	if viper.IsSet("audio.espeak_pitch") {
		cfg.ESpeak.Pitch = viper.GetInt("audio.espeak_pitch")
	}
	if viper.IsSet("audio.espeak_amplitude") {
		cfg.ESpeak.Amplitude = viper.GetInt("audio.espeak_amplitude")
	}
	cfg.ESpeak.WordGap = viper.GetInt("audio.espeak_word_gap")
	if dir := viper.GetString("audio.cache_dir"); dir != "" {
		cfg.EnableCache = true
		cfg.CacheDir = dir
	}
	cfg.OpenAIKey = GetOpenAIKey()
	cfg.Logger = logger

	return cfg
}

// ServerConfig assembles the backend settings
func ServerConfig() *server.Config {
	cfg := server.DefaultConfig()

	if v := viper.GetString("server.addr"); v != "" {
		cfg.Addr = v
	}
	if viper.IsSet("server.rate_limit") {
		cfg.RateLimit = viper.GetInt("server.rate_limit")
	}
	return cfg
}

// HistoryPath returns the history database path, empty when disabled
func HistoryPath() string {
	if viper.GetBool("history.disabled") {
		return ""
	}
	if v := viper.GetString("history.db"); v != "" {
		return v
	}
	return filepath.Join(DefaultStateDir(), "history.db")
}

// OutputDir returns the directory for generated files
func OutputDir() string {
	if v := viper.GetString("output.directory"); v != "" {
		return v
	}
	return filepath.Join(DefaultStateDir(), "audio")
}

// BackendURL returns the configured backend, empty for in-process
func BackendURL() string {
	return viper.GetString("backend.url")
}
