package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "kn", "kn+m1", "kn+f1")
	Speed     int    // Speech speed in words per minute (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultConfig returns the default configuration for the Kannada voice
func DefaultConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "kn",
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
	}
}

// ESpeak drives the espeak-ng binary
type ESpeak struct {
	config *ESpeakConfig
}

// New creates a new ESpeak instance with the given configuration
func New(config *ESpeakConfig) (*ESpeak, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}
	return newESpeak(config), nil
}

// newESpeak copies config through the setters, so out-of-range values are
// clamped. An empty voice or a zero speed keeps the default.
func newESpeak(config *ESpeakConfig) *ESpeak {
	e := &ESpeak{config: DefaultConfig()}
	if config == nil {
		return e
	}

	if config.Voice != "" {
		e.SetVoice(config.Voice)
	}
	if config.Speed != 0 {
		e.SetSpeed(config.Speed)
	}
	e.SetPitch(config.Pitch)
	e.SetAmplitude(config.Amplitude)
	e.SetWordGap(config.WordGap)
	return e
}

// args builds the espeak-ng command line for text
func (e *ESpeak) args(text, outputFile string) []string {
	args := []string{
		"-v", e.config.Voice,
		"-s", strconv.Itoa(e.config.Speed),
		"-p", strconv.Itoa(e.config.Pitch),
		"-a", strconv.Itoa(e.config.Amplitude),
	}
	if e.config.WordGap > 0 {
		args = append(args, "-g", strconv.Itoa(e.config.WordGap))
	}
	return append(args, "-w", outputFile, text)
}

// GenerateWAV writes a WAV file speaking text
func (e *ESpeak) GenerateWAV(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", e.args(text, outputFile)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// SetVoice updates the voice variant
func (e *ESpeak) SetVoice(voice string) {
	e.config.Voice = voice
}

// SetSpeed updates the speech speed
func (e *ESpeak) SetSpeed(speed int) {
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}
	e.config.Speed = speed
}

// SetPitch updates the pitch (0-99, 50 is default)
func (e *ESpeak) SetPitch(pitch int) {
	if pitch < 0 {
		pitch = 0
	} else if pitch > 99 {
		pitch = 99
	}
	e.config.Pitch = pitch
}

// SetAmplitude updates the volume/amplitude (0-200, 100 is default)
func (e *ESpeak) SetAmplitude(amplitude int) {
	if amplitude < 0 {
		amplitude = 0
	} else if amplitude > 200 {
		amplitude = 200
	}
	e.config.Amplitude = amplitude
}

// SetWordGap updates the pause between words in 10ms units
func (e *ESpeak) SetWordGap(gap int) {
	if gap < 0 {
		gap = 0
	}
	e.config.WordGap = gap
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ListVoices returns the Kannada voice variants
func ListVoices() []string {
	return []string{
		"kn",
		"kn+m1",
		"kn+m2",
		"kn+m3",
		"kn+f1",
		"kn+f2",
		"kn+f3",
	}
}

// IsKnownVoice reports whether voice is one of ListVoices
func IsKnownVoice(voice string) bool {
	for _, v := range ListVoices() {
		if v == voice {
			return true
		}
	}
	return false
}
