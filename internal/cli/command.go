package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/kannadify/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kannadify [text]",
		Short: "English to Kannada translator with speech",
		Long: `kannadify translates English text to Kannada and speaks the result.

Translations come from MyMemory, OpenAI or Gemini; audio is generated
with OpenAI TTS or espeak-ng and saved as WAV.

Examples:
  kannadify                          # Launch interactive GUI (default)
  kannadify "good morning"           # Translate and save audio via CLI
  kannadify --batch phrases.txt      # Process multiple texts from file
  kannadify serve --addr :5000       # Run the HTTP backend
  kannadify history                  # Show recent translations
  kannadify --archive                # Move previous output aside`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateServeCommand creates the serve subcommand. The caller sets RunE.
func CreateServeCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translation HTTP backend",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address")
	cmd.Flags().IntVar(&flags.RateLimit, "rate-limit", flags.RateLimit, "Requests per minute per client IP (0 disables)")

	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.rate_limit", cmd.Flags().Lookup("rate-limit"))

	return cmd
}

// CreateHistoryCommand creates the history subcommand. The caller sets RunE.
func CreateHistoryCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent translations",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().IntVarP(&flags.HistoryLimit, "limit", "n", flags.HistoryLimit, "Number of entries to show")

	return cmd
}

// DefaultStateDir is where output and history live unless configured
func DefaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "kannadify")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	stateDir := DefaultStateDir()

	// Global flags, shared with the subcommands
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.kannadify.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")
	pf.StringVar(&flags.Translator, "translator", flags.Translator, "Translation provider: mymemory, openai, gemini")
	pf.StringVar(&flags.OpenAIChat, "openai-chat-model", flags.OpenAIChat, "OpenAI model used for translation")
	pf.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model used for translation")
	pf.StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Speech provider: openai, espeak")
	pf.StringVar(&flags.AudioFallback, "audio-fallback", "", "Speech provider to use when the primary fails")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	pf.StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts (default asks for Kannada pronunciation)")
	pf.StringVar(&flags.ESpeakVoice, "espeak-voice", flags.ESpeakVoice, "espeak-ng voice: kn, kn+m1, kn+f1, ...")
	pf.StringVar(&flags.HistoryDB, "history-db", filepath.Join(stateDir, "history.db"), "Translation history database")
	pf.BoolVar(&flags.NoHistory, "no-history", false, "Do not read or record translation history")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", filepath.Join(stateDir, "audio"), "Output directory")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process English texts from file (one per line)")
	cmd.Flags().StringVar(&flags.BackendURL, "backend-url", "", "Use a running backend instead of an in-process one")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the output directory to <parent>/archive/ and exit")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	viper.BindPFlag("translation.provider", pf.Lookup("translator"))
	viper.BindPFlag("translation.openai_model", pf.Lookup("openai-chat-model"))
	viper.BindPFlag("translation.gemini_model", pf.Lookup("gemini-model"))
	viper.BindPFlag("audio.provider", pf.Lookup("audio-provider"))
	viper.BindPFlag("audio.fallback", pf.Lookup("audio-fallback"))
	viper.BindPFlag("audio.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", pf.Lookup("openai-speed"))
	viper.BindPFlag("audio.openai_instruction", pf.Lookup("openai-instruction"))
	viper.BindPFlag("audio.espeak_voice", pf.Lookup("espeak-voice"))
	viper.BindPFlag("history.db", pf.Lookup("history-db"))
	viper.BindPFlag("history.disabled", pf.Lookup("no-history"))
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("backend.url", cmd.Flags().Lookup("backend-url"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".kannadify" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kannadify")
	}

	// KANNADIFY_AUDIO_PROVIDER sets audio.provider
	viper.SetEnvPrefix("KANNADIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translation.gemini_key")
}
