package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"codeberg.org/snonux/kannadify/internal"
	"codeberg.org/snonux/kannadify/internal/audio"
	"codeberg.org/snonux/kannadify/internal/batch"
	"codeberg.org/snonux/kannadify/internal/cli"
	"codeberg.org/snonux/kannadify/internal/client"
	"codeberg.org/snonux/kannadify/internal/gui"
	"codeberg.org/snonux/kannadify/internal/history"
	"codeberg.org/snonux/kannadify/internal/server"
	"codeberg.org/snonux/kannadify/internal/translation"
	"codeberg.org/snonux/kannadify/internal/ui"
)

// TranslationsFile collects "english = kannada" lines in the output directory
const TranslationsFile = "translations.txt"

// Processor handles the main text processing logic
type Processor struct {
	flags  *cli.Flags
	logger *zap.Logger
	out    io.Writer

	// Translator and Speech replace the configured providers when set
	Translator translation.Translator
	Speech     audio.Provider

	backend *client.Client
	store   *history.Store
	stop    context.CancelFunc
	done    chan error
}

// NewProcessor creates a new processor
func NewProcessor(flags *cli.Flags, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		flags:  flags,
		logger: logger,
		out:    os.Stdout,
	}
}

// SetOutput redirects progress output
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// Start connects to the configured backend, or runs one in-process on a
// loopback port when no backend URL is set.
func (p *Processor) Start(ctx context.Context) error {
	if p.backend != nil {
		return nil
	}

	if p.flags.BackendURL != "" {
		p.backend = client.New(p.flags.BackendURL, p.logger)
		return nil
	}

	cfg := cli.ServerConfig()
	cfg.RateLimit = 0
	srv, err := p.newServer(ctx, cfg)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		p.closeStore()
		return fmt.Errorf("failed to start backend: %w", err)
	}

	srvCtx, cancel := context.WithCancel(context.Background())
	p.stop = cancel
	p.done = make(chan error, 1)
	go func() {
		p.done <- srv.Serve(srvCtx, ln)
	}()

	p.backend = client.New("http://"+ln.Addr().String(), p.logger)
	p.logger.Debug("started in-process backend", zap.String("addr", ln.Addr().String()))
	return nil
}

// Close stops the in-process backend and closes the history database
func (p *Processor) Close() error {
	var err error
	if p.stop != nil {
		p.stop()
		err = <-p.done
		p.stop = nil
	}
	p.backend = nil
	if cerr := p.closeStore(); err == nil {
		err = cerr
	}
	return err
}

// newServer opens the history store and builds the provider chain
func (p *Processor) newServer(ctx context.Context, cfg *server.Config) (*server.Server, error) {
	if !p.flags.NoHistory && p.flags.HistoryDB != "" {
		store, err := history.Open(p.flags.HistoryDB)
		if err != nil {
			return nil, err
		}
		p.store = store
	}

	// Interfaces stay nil without a store
	var lookup translation.Lookup
	var hist server.History
	if p.store != nil {
		lookup = p.store
		hist = p.store
	}

	translator := p.Translator
	if translator == nil {
		t, err := translation.New(ctx, cli.TranslationConfig(), lookup)
		if err != nil {
			p.closeStore()
			return nil, fmt.Errorf("failed to create translator: %w", err)
		}
		translator = t
	} else {
		translator = translation.NewCachedTranslator(translator, translation.NewTranslationCache(), lookup)
	}

	speech := p.Speech
	if speech == nil {
		s, err := audio.NewProvider(cli.AudioConfig(p.logger))
		if err != nil {
			p.closeStore()
			return nil, fmt.Errorf("failed to create speech provider: %w", err)
		}
		speech = s
	}
	if err := speech.IsAvailable(); err != nil {
		p.logger.Warn("speech provider not available", zap.String("provider", speech.Name()), zap.Error(err))
	}

	return server.New(cfg, translator, speech, hist, p.logger), nil
}

func (p *Processor) closeStore() error {
	if p.store == nil {
		return nil
	}
	err := p.store.Close()
	p.store = nil
	return err
}

func (p *Processor) newController(view ui.View) *ui.Controller {
	return ui.NewController(view, &memPlayer{}, p.backend, ui.DirSaver{Dir: p.flags.OutputDir},
		ui.WithLogger(p.logger))
}

// ProcessSingleText translates text, synthesizes the translation and saves
// both into the output directory
func (p *Processor) ProcessSingleText(ctx context.Context, text string) error {
	if err := p.Start(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fmt.Fprintf(p.out, "\nProcessing: %s\n", text)

	view := newConsoleView(p.out)
	view.reset(text)
	ctrl := p.newController(view)

	ctrl.TranslateText(ctx)
	if err := view.err(); err != nil {
		return err
	}

	state := ctrl.State()
	fmt.Fprintf(p.out, "  Kannada: %s\n", state.TranslatedText)

	ctrl.DownloadAudio()
	if err := view.err(); err != nil {
		return err
	}
	if !state.HasAudio {
		return errors.New("no audio was generated")
	}

	if err := translation.AppendTranslation(filepath.Join(p.flags.OutputDir, TranslationsFile), text, state.TranslatedText); err != nil {
		fmt.Fprintf(p.out, "  Warning: %v\n", err)
	}

	fmt.Fprintf(p.out, "  Saved audio: %s\n", filepath.Join(p.flags.OutputDir, internal.DownloadFileName))
	return nil
}

// ProcessBatch processes every text of the batch file. A failing line is
// reported and counted; the batch continues.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	if err := p.Start(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	view := newConsoleView(p.out)
	ctrl := p.newController(view)
	saver := ui.DirSaver{Dir: p.flags.OutputDir}
	translations := filepath.Join(p.flags.OutputDir, TranslationsFile)

	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.English)
		view.reset(entry.English)

		kannada := entry.Kannada
		if entry.NeedsTranslation() {
			ctrl.TranslateText(ctx)
			kannada = ctrl.State().TranslatedText
		} else {
			fmt.Fprintf(p.out, "  Using provided translation: %s\n", kannada)
			ctrl.GenerateAudio(ctx, kannada)
		}
		if err := view.err(); err != nil {
			fmt.Fprintf(p.out, "  Skipping line %d: %v\n", entry.Line, err)
			errorCount++
			continue
		}

		name := internal.NumberedFileName(i+1, entry.English, ".wav")
		if err := saver.Save(name, ctrl.Audio()); err != nil {
			fmt.Fprintf(p.out, "  Error saving audio: %v\n", err)
			errorCount++
			continue
		}
		if err := translation.AppendTranslation(translations, entry.English, kannada); err != nil {
			fmt.Fprintf(p.out, "  Warning: %v\n", err)
		}
		fmt.Fprintf(p.out, "  Saved audio: %s\n", name)
		processedCount++
	}

	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total texts: %d\n", len(entries))
	fmt.Fprintf(p.out, "Processed: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "================================\n")

	return nil
}

// RunGUIMode launches the window against the backend
func (p *Processor) RunGUIMode(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		return err
	}

	app, err := gui.New(&gui.Config{
		Backend:     p.backend,
		History:     p.backend,
		DownloadDir: p.flags.OutputDir,
		Logger:      p.logger,
	})
	if err != nil {
		return err
	}
	app.Run()
	return nil
}

// RunServer serves the backend API until ctx is cancelled
func (p *Processor) RunServer(ctx context.Context) error {
	cfg := cli.ServerConfig()
	srv, err := p.newServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.closeStore()

	fmt.Fprintf(p.out, "Kannadify backend v%s listening on %s\n", internal.Version, cfg.Addr)
	return srv.ListenAndServe(ctx)
}

// ShowHistory prints the most recent translations, newest first
func (p *Processor) ShowHistory(ctx context.Context, limit int, w io.Writer) error {
	if err := p.Start(ctx); err != nil {
		return err
	}

	entries, err := p.backend.History(ctx, limit)
	if errors.Is(err, history.ErrNotFound) {
		fmt.Fprintln(w, "History is disabled")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No translations yet")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s = %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.English, e.Kannada)
	}
	return nil
}
