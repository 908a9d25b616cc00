package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	OutputDir  string
	BatchFile  string
	BackendURL string
	ListModels bool
	Archive    bool
	Verbose    bool

	// Translation flags
	Translator  string
	OpenAIChat  string
	GeminiModel string

	// Speech flags
	AudioProvider     string
	AudioFallback     string
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string
	ESpeakVoice       string

	// History flags
	HistoryDB string
	NoHistory bool

	// Server flags
	Addr      string
	RateLimit int

	// history subcommand
	HistoryLimit int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Translator:    "mymemory",
		OpenAIChat:    "gpt-4o-mini",
		GeminiModel:   "gemini-2.0-flash",
		AudioProvider: "openai",
		OpenAIModel:   "gpt-4o-mini-tts",
		OpenAIVoice:   "nova",
		OpenAISpeed:   1.0,
		ESpeakVoice:   "kn",
		Addr:          ":5000",
		RateLimit:     60,
		HistoryLimit:  20,
	}
}
