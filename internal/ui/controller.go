package ui

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"codeberg.org/snonux/kannadify/internal"
)

// StatusKind selects how a status message is styled and whether it expires
type StatusKind string

const (
	StatusLoading StatusKind = "loading"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// StatusTimeout is how long a non-loading status message stays visible
const StatusTimeout = 4 * time.Second

const (
	msgEmptyInput       = "Please enter English text"
	msgTranslating      = "Translating..."
	msgTranslated       = "Translation successful! ✓"
	msgGenerating       = "Generating audio..."
	msgGenerated        = "Audio generated successfully! ✓"
	msgCleared          = "Cleared! ✓"
	prefixError         = "Error: "
	prefixAudioError    = "Error generating audio: "
	prefixPlaybackError = "Error playing audio: "
	prefixDownloadError = "Error downloading audio: "
)

// View is the set of widgets the controller drives. View methods are called
// while the controller holds its lock and must not call back into it.
type View interface {
	SourceText() string
	SetSourceText(text string)
	SetTranslatedText(text string)
	SetCharCount(n int)
	SetTranslateBusy(busy bool)
	SetAudioActionsEnabled(enabled bool)
	// ShowPlaying swaps the play and stop controls: the stop control is
	// visible while playing, the play control otherwise.
	ShowPlaying(playing bool)
	ShowStatus(message string, kind StatusKind)
	HideStatus()
	ClearStatus()
}

// Player plays one audio payload at a time and reports play, pause and
// ended events to handlers registered with On.
type Player interface {
	Load(data []byte) error
	Unload()
	Loaded() bool
	Play() error
	Pause()
	Rewind()
	On(event Event, handler func())
}

// Backend performs the two network calls of the translator
type Backend interface {
	Translate(ctx context.Context, text string) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Saver materializes a downloadable file
type Saver interface {
	Save(name string, data []byte) error
}

// Timer is the part of *time.Timer the controller uses
type Timer interface {
	Stop() bool
}

// Status is the status message currently shown
type Status struct {
	Message string
	Kind    StatusKind
	Visible bool
}

// State is a snapshot of the controller
type State struct {
	TranslatedText      string
	CharCount           int
	HasAudio            bool
	Playing             bool
	Busy                bool
	AudioActionsEnabled bool
	Status              Status
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used for discarded responses and failures
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithAfterFunc replaces time.AfterFunc for status expiry. The function
// must not run f before returning.
func WithAfterFunc(afterFunc func(d time.Duration, f func()) Timer) Option {
	return func(c *Controller) {
		c.afterFunc = afterFunc
	}
}

// Controller wires the view to the backend and owns the session state
type Controller struct {
	view    View
	player  Player
	backend Backend
	saver   Saver

	logger    *zap.Logger
	afterFunc func(d time.Duration, f func()) Timer

	mu             sync.Mutex
	currentAudio   []byte
	isPlaying      bool
	translated     string
	charCount      int
	inFlight       int
	actionsEnabled bool
	status         Status
	statusTimer    Timer
	statusSeq      uint64
	translateSeq   uint64
	audioSeq       uint64

	// assetMu serializes replacing the audio asset and loading it into the
	// player, so a slower response can never load after a newer one.
	assetMu sync.Mutex
}

// NewController creates the controller and registers its playback handlers
func NewController(view View, player Player, backend Backend, saver Saver, opts ...Option) *Controller {
	c := &Controller{
		view:    view,
		player:  player,
		backend: backend,
		saver:   saver,
		logger:  zap.NewNop(),
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	player.On(EventPlay, func() { c.syncPlaying(true) })
	player.On(EventPause, func() { c.syncPlaying(false) })
	player.On(EventEnded, func() { c.syncPlaying(false) })

	c.mu.Lock()
	c.view.SetAudioActionsEnabled(false)
	c.view.ShowPlaying(false)
	c.view.SetCharCount(0)
	c.mu.Unlock()

	return c
}

// SourceChanged refreshes the character counter from the source field
func (c *Controller) SourceChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.charCount = utf8.RuneCountInString(c.view.SourceText())
	c.view.SetCharCount(c.charCount)
}

// TranslateText translates the source field and, on success, synthesizes
// audio for the fresh translation.
func (c *Controller) TranslateText(ctx context.Context) {
	c.mu.Lock()
	text := strings.TrimSpace(c.view.SourceText())
	c.mu.Unlock()

	if text == "" {
		c.ShowStatus(msgEmptyInput, StatusError)
		return
	}

	translated, ok := c.translate(ctx, text)
	if !ok {
		return
	}

	c.GenerateAudio(ctx, translated)
}

func (c *Controller) translate(ctx context.Context, text string) (string, bool) {
	c.mu.Lock()
	c.translateSeq++
	token := c.translateSeq
	c.inFlight++
	c.view.SetTranslateBusy(true)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.view.SetTranslateBusy(c.inFlight > 0)
		c.mu.Unlock()
	}()

	c.ShowStatus(msgTranslating, StatusLoading)

	translated, err := c.backend.Translate(ctx, text)

	c.mu.Lock()
	if token != c.translateSeq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale translation", zap.String("text", text))
		return "", false
	}
	if err != nil {
		c.setActionsEnabledLocked(false)
		c.mu.Unlock()
		c.logger.Warn("translation failed", zap.Error(err))
		c.ShowStatus(prefixError+err.Error(), StatusError)
		return "", false
	}
	c.translated = translated
	c.view.SetTranslatedText(translated)
	c.setActionsEnabledLocked(true)
	c.mu.Unlock()

	c.ShowStatus(msgTranslated, StatusSuccess)
	return translated, true
}

// GenerateAudio synthesizes text and makes the result the current asset.
// Empty text is ignored.
func (c *Controller) GenerateAudio(ctx context.Context, text string) {
	if text == "" {
		return
	}

	c.mu.Lock()
	c.audioSeq++
	token := c.audioSeq
	c.mu.Unlock()

	c.ShowStatus(msgGenerating, StatusLoading)

	data, err := c.backend.Synthesize(ctx, text)

	c.assetMu.Lock()
	c.mu.Lock()
	if token != c.audioSeq {
		c.mu.Unlock()
		c.assetMu.Unlock()
		c.logger.Debug("discarding stale audio", zap.Int("bytes", len(data)))
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.assetMu.Unlock()
		c.logger.Warn("audio generation failed", zap.Error(err))
		c.ShowStatus(prefixAudioError+err.Error(), StatusError)
		return
	}
	c.currentAudio = data
	c.mu.Unlock()

	// Player calls stay outside c.mu: they emit events whose handlers lock it.
	err = c.player.Load(data)
	c.assetMu.Unlock()
	if err != nil {
		c.logger.Warn("failed to load audio", zap.Error(err))
		c.ShowStatus(prefixAudioError+err.Error(), StatusError)
		return
	}

	c.ShowStatus(msgGenerated, StatusSuccess)
}

// PlayAudio toggles between play and pause. Nothing happens without a
// loaded asset.
func (c *Controller) PlayAudio() {
	if !c.player.Loaded() {
		return
	}

	c.mu.Lock()
	playing := c.isPlaying
	c.isPlaying = !playing
	c.view.ShowPlaying(!playing)
	c.mu.Unlock()

	if playing {
		c.player.Pause()
		return
	}

	if err := c.player.Play(); err != nil {
		c.syncPlaying(false)
		c.ShowStatus(prefixPlaybackError+err.Error(), StatusError)
	}
}

// StopAudio pauses playback and rewinds to the start
func (c *Controller) StopAudio() {
	c.player.Pause()
	c.player.Rewind()
	c.syncPlaying(false)
}

// DownloadAudio saves the current asset under the fixed download name
func (c *Controller) DownloadAudio() {
	c.mu.Lock()
	data := c.currentAudio
	c.mu.Unlock()

	if data == nil {
		return
	}

	if err := c.saver.Save(internal.DownloadFileName, data); err != nil {
		c.logger.Warn("download failed", zap.Error(err))
		c.ShowStatus(prefixDownloadError+err.Error(), StatusError)
	}
}

// ClearAll resets the fields, the asset and the status. In-flight requests
// are abandoned: their responses are discarded when they arrive.
func (c *Controller) ClearAll() {
	c.assetMu.Lock()
	c.mu.Lock()
	c.view.SetSourceText("")
	c.view.SetTranslatedText("")
	c.translated = ""
	c.charCount = 0
	c.view.SetCharCount(0)
	c.currentAudio = nil
	c.translateSeq++
	c.audioSeq++
	c.setActionsEnabledLocked(false)
	c.clearStatusLocked()
	c.mu.Unlock()

	c.player.Unload()
	c.assetMu.Unlock()

	c.StopAudio()
	c.ShowStatus(msgCleared, StatusSuccess)
}

// ShowStatus displays message. Loading messages stay until replaced, any
// other kind disappears after StatusTimeout.
func (c *Controller) ShowStatus(message string, kind StatusKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.statusSeq++
	seq := c.statusSeq
	c.stopStatusTimerLocked()

	c.status = Status{Message: message, Kind: kind, Visible: true}
	c.view.ShowStatus(message, kind)

	if kind != StatusLoading {
		c.statusTimer = c.afterFunc(StatusTimeout, func() {
			c.dismissStatus(seq)
		})
	}
}

// State returns a snapshot of the session
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		TranslatedText:      c.translated,
		CharCount:           c.charCount,
		HasAudio:            c.currentAudio != nil,
		Playing:             c.isPlaying,
		Busy:                c.inFlight > 0,
		AudioActionsEnabled: c.actionsEnabled,
		Status:              c.status,
	}
}

// Audio returns the current asset, nil when none is loaded
func (c *Controller) Audio() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentAudio
}

func (c *Controller) syncPlaying(playing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.isPlaying = playing
	c.view.ShowPlaying(playing)
}

func (c *Controller) dismissStatus(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.statusSeq {
		return
	}
	c.statusTimer = nil
	c.status.Visible = false
	c.view.HideStatus()
}

func (c *Controller) setActionsEnabledLocked(enabled bool) {
	c.actionsEnabled = enabled
	c.view.SetAudioActionsEnabled(enabled)
}

func (c *Controller) clearStatusLocked() {
	c.statusSeq++
	c.stopStatusTimerLocked()
	c.status = Status{}
	c.view.ClearStatus()
}

func (c *Controller) stopStatusTimerLocked() {
	if c.statusTimer != nil {
		c.statusTimer.Stop()
		c.statusTimer = nil
	}
}
