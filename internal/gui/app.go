package gui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/kannadify/internal"
	"codeberg.org/snonux/kannadify/internal/audio"
	"codeberg.org/snonux/kannadify/internal/history"
	"codeberg.org/snonux/kannadify/internal/ui"
)

// HistorySource lists recent translations
type HistorySource interface {
	History(ctx context.Context, limit int) ([]history.Entry, error)
}

// Config holds GUI application configuration
type Config struct {
	Backend     ui.Backend
	History     HistorySource // optional
	DownloadDir string
	Logger      *zap.Logger
}

// DefaultDownloadDir is ~/Downloads, falling back to the working directory
func DefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// Application represents the main GUI application. It implements ui.View;
// every widget update is handed to the main goroutine with fyne.Do.
type Application struct {
	app    fyne.App
	window fyne.Window

	sourceEntry     *SourceEntry
	translatedEntry *widget.Entry
	charCountLabel  *widget.Label
	translateButton *ttwidget.Button
	clearButton     *ttwidget.Button
	audioControls   *AudioControls
	statusLabel     *widget.Label
	historyPanel    *HistoryPanel

	controller *ui.Controller
	player     *audio.ExecPlayer
	config     *Config
	logger     *zap.Logger

	// sourceText mirrors sourceEntry so the controller can read it from
	// any goroutine
	mu         sync.Mutex
	sourceText string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new GUI application
func New(config *Config) (*Application, error) {
	if config == nil || config.Backend == nil {
		return nil, errors.New("gui needs a backend")
	}
	if config.DownloadDir == "" {
		config.DownloadDir = DefaultDownloadDir()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:    app.NewWithID("org.codeberg.snonux.kannadify"),
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		player: audio.NewExecPlayer(logger),
	}

	a.setupUI()

	a.controller = ui.NewController(a, a.player, config.Backend, ui.DirSaver{Dir: config.DownloadDir},
		ui.WithLogger(logger))

	return a, nil
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("Kannadify v%s - English to Kannada", internal.Version))
	a.window.Resize(fyne.NewSize(720, 640))

	a.sourceEntry = NewSourceEntry()
	a.sourceEntry.SetPlaceHolder("English text... (Ctrl+Enter to translate)")
	a.sourceEntry.SetOnSubmit(a.onTranslate)
	a.sourceEntry.SetOnEscape(func() { a.window.Canvas().Unfocus() })
	a.sourceEntry.OnChanged = func(text string) {
		a.mu.Lock()
		a.sourceText = text
		a.mu.Unlock()
		if a.controller != nil {
			a.controller.SourceChanged()
		}
	}

	a.charCountLabel = widget.NewLabel("0 characters")
	a.charCountLabel.TextStyle = fyne.TextStyle{Italic: true}

	a.translatedEntry = widget.NewMultiLineEntry()
	a.translatedEntry.SetPlaceHolder("ಕನ್ನಡ ಅನುವಾದ...")
	a.translatedEntry.Wrapping = fyne.TextWrapWord
	a.translatedEntry.Disable()

	a.translateButton = ttwidget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), a.onTranslate)
	a.translateButton.Importance = widget.HighImportance
	a.clearButton = ttwidget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), a.onClear)

	a.audioControls = NewAudioControls(a.onPlay, a.onStop, a.onDownload)

	a.statusLabel = widget.NewLabel("")
	a.statusLabel.Wrapping = fyne.TextWrapWord
	a.statusLabel.Hide()

	a.historyPanel = NewHistoryPanel(a.refreshHistory)

	sourceSection := container.NewBorder(
		widget.NewLabel("English"),
		container.NewHBox(a.charCountLabel, layout.NewSpacer(), a.clearButton, a.translateButton),
		nil, nil,
		a.sourceEntry,
	)
	targetSection := container.NewBorder(
		widget.NewLabel("Kannada"),
		a.audioControls,
		nil, nil,
		a.translatedEntry,
	)

	main := container.NewVSplit(
		container.NewGridWithRows(2, sourceSection, targetSection),
		a.historyPanel,
	)
	main.SetOffset(0.75)

	content := container.NewBorder(nil, a.statusLabel, nil, nil, main)
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	a.setupTooltips()
	a.setupKeyboardShortcuts()

	a.window.SetOnClosed(func() {
		a.cancel()
		a.wg.Wait()
		a.player.Close()
	})
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.translateButton.SetToolTip("Translate (Ctrl+Enter)")
	a.clearButton.SetToolTip("Clear everything (Ctrl+L)")
	a.audioControls.SetToolTips(a.config.DownloadDir)
}

func (a *Application) setupKeyboardShortcuts() {
	canvas := a.window.Canvas()
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { a.onTranslate() })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyP, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { a.onPlay() })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyL, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { a.onClear() })
}

// Run starts the GUI application
func (a *Application) Run() {
	a.refreshHistory()
	a.window.Canvas().Focus(a.sourceEntry)
	a.window.ShowAndRun()
}

// background runs f off the main goroutine
func (a *Application) background(f func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		f()
	}()
}

func (a *Application) onTranslate() {
	a.background(func() {
		a.controller.TranslateText(a.ctx)
		a.refreshHistory()
	})
}

func (a *Application) onClear() {
	a.background(a.controller.ClearAll)
}

func (a *Application) onPlay() {
	a.background(a.controller.PlayAudio)
}

func (a *Application) onStop() {
	a.background(a.controller.StopAudio)
}

func (a *Application) onDownload() {
	a.background(a.controller.DownloadAudio)
}

func (a *Application) refreshHistory() {
	if a.config.History == nil {
		fyne.Do(func() { a.historyPanel.SetMessage("History is not available") })
		return
	}

	a.background(func() {
		entries, err := a.config.History.History(a.ctx, 20)
		fyne.Do(func() {
			switch {
			case errors.Is(err, history.ErrNotFound):
				a.historyPanel.SetMessage("History is disabled")
			case err != nil:
				a.logger.Debug("failed to load history", zap.Error(err))
				a.historyPanel.SetMessage("Could not load history")
			default:
				a.historyPanel.SetEntries(entries)
			}
		})
	})
}

// SourceText implements ui.View
func (a *Application) SourceText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sourceText
}

// SetSourceText implements ui.View
func (a *Application) SetSourceText(text string) {
	a.mu.Lock()
	a.sourceText = text
	a.mu.Unlock()
	fyne.Do(func() { a.sourceEntry.SetText(text) })
}

// SetTranslatedText implements ui.View
func (a *Application) SetTranslatedText(text string) {
	fyne.Do(func() { a.translatedEntry.SetText(text) })
}

// SetCharCount implements ui.View
func (a *Application) SetCharCount(n int) {
	fyne.Do(func() { a.charCountLabel.SetText(charCountText(n)) })
}

// SetTranslateBusy implements ui.View
func (a *Application) SetTranslateBusy(busy bool) {
	fyne.Do(func() {
		if busy {
			a.translateButton.SetText("Translating...")
			a.translateButton.Disable()
		} else {
			a.translateButton.SetText("Translate")
			a.translateButton.Enable()
		}
	})
}

// SetAudioActionsEnabled implements ui.View
func (a *Application) SetAudioActionsEnabled(enabled bool) {
	fyne.Do(func() { a.audioControls.SetEnabled(enabled) })
}

// ShowPlaying implements ui.View
func (a *Application) ShowPlaying(playing bool) {
	fyne.Do(func() { a.audioControls.ShowPlaying(playing) })
}

// ShowStatus implements ui.View
func (a *Application) ShowStatus(message string, kind ui.StatusKind) {
	fyne.Do(func() {
		a.statusLabel.Importance = statusImportance(kind)
		a.statusLabel.SetText(message)
		a.statusLabel.Show()
	})
}

// HideStatus implements ui.View
func (a *Application) HideStatus() {
	fyne.Do(a.statusLabel.Hide)
}

// ClearStatus implements ui.View
func (a *Application) ClearStatus() {
	fyne.Do(func() {
		a.statusLabel.SetText("")
		a.statusLabel.Hide()
	})
}

func statusImportance(kind ui.StatusKind) widget.Importance {
	switch kind {
	case ui.StatusSuccess:
		return widget.SuccessImportance
	case ui.StatusError:
		return widget.DangerImportance
	default:
		return widget.MediumImportance
	}
}

func charCountText(n int) string {
	if n == 1 {
		return "1 character"
	}
	return fmt.Sprintf("%d characters", n)
}
