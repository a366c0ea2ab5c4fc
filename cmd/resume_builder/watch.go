package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/compile"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the resume whenever its inputs change",
	Long: `Builds the resume once, then rebuilds it each time the content file, the
template or the config file changes. Failed builds are reported and watching
continues. Stop with Ctrl-C.`,
	RunE: runWatch,
}

var (
	watchFlags    generateFlags
	watchDebounce time.Duration
	watchRender   bool
)

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "How long changes must settle before rebuilding")
	watchCmd.Flags().BoolVar(&watchRender, "render-only", false, "Only write the LaTeX source on change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := watchFlags.resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, closeDB := openRecorder(ctx, cfg.DatabaseURL)
	defer closeDB()

	rebuild := func(ctx context.Context) {
		// Re-read the config file so edits to it apply to this build
		current, err := watchFlags.resolveConfig(cmd)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
			return
		}
		opts, err := pipelineOptions(current, recorderOf(database))
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
			return
		}
		opts.SkipCompile = watchRender

		result, err := pipeline.Generate(ctx, opts)
		if err != nil {
			var compileErr *compile.CompileError
			if errors.As(err, &compileErr) && !opts.Verbose {
				_, _ = fmt.Fprintf(os.Stderr, "%s\n", compileErr.Log)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
			return
		}
		out := result.Document.ArtifactPath
		if out == "" {
			out = result.Document.SourcePath
		}
		_, _ = fmt.Fprintf(os.Stdout, "[%s] Built %s\n", time.Now().Format("15:04:05"), out)
	}

	rebuild(ctx)

	paths := []string{cfg.Content}
	if cfg.Template != "" {
		paths = append(paths, cfg.Template)
	}
	if configPath != "" {
		paths = append(paths, configPath)
	}

	w := &watch.Watcher{
		Paths:    paths,
		Debounce: watchDebounce,
		Logger:   logger,
		OnChange: func(ctx context.Context, changed []string) {
			logger.Info("inputs changed", zap.Strings("paths", changed))
			rebuild(ctx)
		},
	}

	_, _ = fmt.Fprintf(os.Stdout, "Watching %d file(s) for changes...\n", len(paths))
	return w.Run(ctx)
}
