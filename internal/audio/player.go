package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/kannadify/internal/ui"
)

// CommandFunc builds the command that plays file
type CommandFunc func(file string) (*exec.Cmd, error)

// ExecPlayer plays audio through an external player binary. Pausing stops
// the process, so playing again starts from the beginning.
type ExecPlayer struct {
	ui.Emitter

	// Command builds the playback command; nil uses PlaybackCommand
	Command CommandFunc
	// Dir holds the temporary audio file; empty uses os.TempDir
	Dir string
	// Logger reports playback failures; nil disables logging
	Logger *zap.Logger

	mu   sync.Mutex
	file string
	cmd  *exec.Cmd
}

// NewExecPlayer creates a player using the platform's audio player
func NewExecPlayer(logger *zap.Logger) *ExecPlayer {
	return &ExecPlayer{Logger: logger}
}

// Load writes data to a temporary WAV file, replacing any loaded audio.
// Replacing a playing clip stops it and emits a pause event.
func (p *ExecPlayer) Load(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("no audio data")
	}

	f, err := os.CreateTemp(p.Dir, "kannadify-*.wav")
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	p.Unload()

	p.mu.Lock()
	p.file = f.Name()
	p.mu.Unlock()
	return nil
}

// Unload stops playback and removes the loaded file. A pause event is
// emitted if a clip was playing.
func (p *ExecPlayer) Unload() {
	p.mu.Lock()
	running := p.cmd != nil
	p.killLocked()
	if p.file != "" {
		os.Remove(p.file)
		p.file = ""
	}
	p.mu.Unlock()

	if running {
		p.Emit(ui.EventPause)
	}
}

// Loaded reports whether audio is loaded
func (p *ExecPlayer) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file != ""
}

// Play starts the player process. It is a no-op while already playing.
func (p *ExecPlayer) Play() error {
	p.mu.Lock()
	if p.file == "" {
		p.mu.Unlock()
		return fmt.Errorf("no audio loaded")
	}
	if p.cmd != nil {
		p.mu.Unlock()
		return nil
	}

	build := p.Command
	if build == nil {
		build = PlaybackCommand
	}
	cmd, err := build(p.file)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if err := cmd.Start(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("failed to start audio player: %w", err)
	}
	p.cmd = cmd
	p.mu.Unlock()

	// play must reach the handlers before ended can
	p.Emit(ui.EventPlay)
	go p.wait(cmd)
	return nil
}

func (p *ExecPlayer) wait(cmd *exec.Cmd) {
	err := cmd.Wait()

	p.mu.Lock()
	if p.cmd != cmd {
		// Killed by Pause or Unload
		p.mu.Unlock()
		return
	}
	p.cmd = nil
	p.mu.Unlock()

	if err != nil && p.Logger != nil {
		p.Logger.Warn("audio player exited with error", zap.Error(err))
	}
	p.Emit(ui.EventEnded)
}

// Pause stops the player process and emits a pause event if it was running
func (p *ExecPlayer) Pause() {
	p.mu.Lock()
	running := p.cmd != nil
	p.killLocked()
	p.mu.Unlock()

	if running {
		p.Emit(ui.EventPause)
	}
}

// Rewind is implicit: every Play starts at the beginning
func (p *ExecPlayer) Rewind() {}

// Close releases the loaded file
func (p *ExecPlayer) Close() error {
	p.Unload()
	return nil
}

func (p *ExecPlayer) killLocked() {
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.cmd = nil
}

// PlaybackCommand returns the first available player for file on this
// platform.
func PlaybackCommand(file string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("afplay", file), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		candidates := [][]string{
			{"aplay", "-q"},
			{"paplay"},
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
			{"play", "-q"},
		}
		for _, c := range candidates {
			if _, err := exec.LookPath(c[0]); err == nil {
				return exec.Command(c[0], append(c[1:], file)...), nil
			}
		}
		return nil, fmt.Errorf("no audio player found. Install aplay, paplay, ffplay, or sox")
	case "windows":
		return exec.Command("powershell", "-NoProfile", "-Command",
			fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", file)), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
