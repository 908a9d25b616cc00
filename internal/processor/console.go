package processor

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"codeberg.org/snonux/kannadify/internal/ui"
)

// consoleView prints status messages and keeps the field values in memory
type consoleView struct {
	out io.Writer

	mu         sync.Mutex
	source     string
	translated string
	lastError  string
}

func newConsoleView(out io.Writer) *consoleView {
	return &consoleView{out: out}
}

// reset prepares the view for the next text
func (v *consoleView) reset(source string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.source = source
	v.translated = ""
	v.lastError = ""
}

// err returns the last error status since reset
func (v *consoleView) err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.lastError == "" {
		return nil
	}
	return errors.New(v.lastError)
}

func (v *consoleView) SourceText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.source
}

func (v *consoleView) SetSourceText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.source = text
}

func (v *consoleView) SetTranslatedText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.translated = text
}

func (v *consoleView) SetCharCount(int) {}
func (v *consoleView) SetTranslateBusy(bool) {}
func (v *consoleView) SetAudioActionsEnabled(bool) {}
func (v *consoleView) ShowPlaying(bool) {}
func (v *consoleView) HideStatus() {}
func (v *consoleView) ClearStatus() {}

func (v *consoleView) ShowStatus(message string, kind ui.StatusKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if kind == ui.StatusError {
		v.lastError = message
	}
	fmt.Fprintf(v.out, "  %s\n", message)
}

// memPlayer holds the loaded payload without playing it
type memPlayer struct {
	ui.Emitter

	mu   sync.Mutex
	data []byte
}

func (p *memPlayer) Load(data []byte) error {
	if len(data) == 0 {
		return errors.New("no audio data")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = data
	return nil
}

func (p *memPlayer) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = nil
}

func (p *memPlayer) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data != nil
}

func (p *memPlayer) Play() error {
	return errors.New("playback is not available in headless mode")
}

func (p *memPlayer) Pause() {}
func (p *memPlayer) Rewind() {}
