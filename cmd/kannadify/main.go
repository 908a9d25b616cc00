package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/kannadify/internal/archive"
	"codeberg.org/snonux/kannadify/internal/cli"
	"codeberg.org/snonux/kannadify/internal/models"
	"codeberg.org/snonux/kannadify/internal/processor"
)

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	flags := cli.NewFlags()

	rootCmd := cli.CreateRootCommand(flags)
	serveCmd := cli.CreateServeCommand(flags)
	historyCmd := cli.CreateHistoryCommand(flags)
	rootCmd.AddCommand(serveCmd, historyCmd)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), args, flags)
	}
	serveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), flags)
	}
	historyCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd.Context(), flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newProcessor resolves config-file values into flags and builds the logger
func newProcessor(flags *cli.Flags, level zapcore.Level) (*processor.Processor, *zap.Logger, error) {
	flags.OutputDir = cli.OutputDir()
	flags.BackendURL = cli.BackendURL()
	flags.HistoryDB = cli.HistoryPath()
	flags.NoHistory = flags.HistoryDB == ""

	logger, err := cli.NewLogger(flags.Verbose, level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return processor.NewProcessor(flags, logger), logger, nil
}

func runCommand(ctx context.Context, args []string, flags *cli.Flags) error {
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	if flags.Archive {
		archived, err := archive.ArchiveOutput(cli.OutputDir())
		if err != nil {
			return fmt.Errorf("failed to archive output: %w", err)
		}
		fmt.Printf("Output directory archived to: %s\n", archived)
		return nil
	}

	proc, logger, err := newProcessor(flags, zapcore.WarnLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer proc.Close()

	switch {
	case flags.BatchFile != "":
		if err := proc.ProcessBatch(ctx); err != nil {
			return err
		}
	case len(args) > 0:
		if err := proc.ProcessSingleText(ctx, args[0]); err != nil {
			return err
		}
	default:
		// No input provided - launch GUI mode by default
		return proc.RunGUIMode(ctx)
	}

	fmt.Printf("\nDone! Audio saved to: %s\n", flags.OutputDir)
	return nil
}

func runServe(ctx context.Context, flags *cli.Flags) error {
	proc, logger, err := newProcessor(flags, zapcore.InfoLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return proc.RunServer(ctx)
}

func runHistory(ctx context.Context, flags *cli.Flags) error {
	proc, logger, err := newProcessor(flags, zapcore.WarnLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer proc.Close()

	return proc.ShowHistory(ctx, flags.HistoryLimit, os.Stdout)
}
