package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/compile"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/selection"
)

// generateFlags are shared by build, render and watch
type generateFlags struct {
	content           string
	outputDir         string
	template          string
	selection         string
	compiler          string
	timeout           time.Duration
	baseName          string
	margin            float64
	keepIntermediates bool
	countPages        bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.content, "content", "c", "", "Path to resume content file (JSON or YAML)")
	cmd.Flags().StringVarP(&f.outputDir, "out", "o", "", "Output directory for the .tex source and PDF (default \"outputs\")")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Path to a LaTeX template overriding the built-in one")
	cmd.Flags().StringVarP(&f.selection, "select", "s", "", "Entries to keep per section, e.g. experiences=3,projects=0")
	cmd.Flags().StringVar(&f.compiler, "compiler", "", "LaTeX compiler executable (default \"pdflatex\")")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Maximum time for one compiler run (default 30s)")
	cmd.Flags().StringVar(&f.baseName, "base-name", "", "File name of the source and PDF, without extension (default \"resume\")")
	cmd.Flags().Float64Var(&f.margin, "margin", 0, "Page margin in inches (default 0.4)")
	cmd.Flags().BoolVar(&f.keepIntermediates, "keep-intermediates", false, "Keep .aux, .log and .out files")
	cmd.Flags().BoolVar(&f.countPages, "count-pages", false, "Report the page count of the PDF (needs pdfinfo or ghostscript)")
}

// resolveConfig layers explicitly set flags over the config file, the
// environment and the defaults, then validates the result
func (f *generateFlags) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var file *config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		file = loaded
		logger.Debug("loaded config", zap.String("path", configPath))
	}

	// Only override if the flag was explicitly set
	var flags config.Config
	changed := cmd.Flags().Changed
	if changed("content") {
		flags.Content = f.content
	}
	if changed("out") {
		flags.OutputDir = f.outputDir
	}
	if changed("template") {
		flags.Template = f.template
	}
	if changed("select") {
		req, err := selection.ParseRequest(f.selection)
		if err != nil {
			return config.Config{}, err
		}
		flags.Selection = make(map[string]int, len(req))
		for c, n := range req {
			flags.Selection[string(c)] = n
		}
	}
	if changed("compiler") {
		flags.Compiler = f.compiler
	}
	if changed("timeout") {
		flags.CompileTimeout = f.timeout.String()
	}
	if changed("base-name") {
		flags.BaseName = f.baseName
	}
	flags.Verbose = verbose
	flags.DatabaseURL = databaseURL

	cfg := config.Resolve(flags, file)

	// Explicit zero and false flags override the file and the defaults
	if changed("margin") {
		cfg.Margin = f.margin
	}
	if changed("keep-intermediates") {
		cfg.KeepIntermediates = f.keepIntermediates
	}
	if changed("count-pages") {
		cfg.CountPages = f.countPages
	}
	if v := cmd.Flags().Lookup("verbose"); v != nil && v.Changed {
		cfg.Verbose = verbose
	}
	if cfg.Content == "" {
		return config.Config{}, fmt.Errorf("--content is required (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// pipelineOptions builds the options for one generation run
func pipelineOptions(cfg config.Config, recorder pipeline.Recorder) (pipeline.Options, error) {
	req, err := cfg.SelectionRequest()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		ContentPath: cfg.Content,
		Selection:   req,
		OutputDir:   cfg.OutputDir,
		Render: rendering.Options{
			TemplatePath: cfg.Template,
			Margins: &rendering.Margins{
				Left: cfg.Margin, Top: cfg.Margin, Right: cfg.Margin, Bottom: cfg.Margin,
			},
		},
		CompilerBinary:    cfg.Compiler,
		CompileTimeout:    cfg.Timeout(),
		BaseName:          cfg.BaseName,
		KeepIntermediates: cfg.KeepIntermediates,
		CountPages:        cfg.CountPages,
		Verbose:           cfg.Verbose,
		Out:               os.Stdout,
		Logger:            logger,
		Recorder:          recorder,
	}, nil
}

// openRecorder connects to the run store when a database URL is configured.
// A store that cannot be reached is logged and generation continues without it.
func openRecorder(ctx context.Context, url string) (*db.DB, func()) {
	if url == "" {
		return nil, func() {}
	}
	database, err := db.Connect(ctx, url)
	if err != nil {
		logger.Warn("run history disabled", zap.Error(err))
		return nil, func() {}
	}
	if err := database.EnsureSchema(ctx); err != nil {
		logger.Warn("run history disabled", zap.Error(err))
		database.Close()
		return nil, func() {}
	}
	return database, database.Close
}

// recorderOf avoids handing the pipeline a typed nil
func recorderOf(database *db.DB) pipeline.Recorder {
	if database == nil {
		return nil
	}
	return database
}

// Exit codes by failure kind
const (
	exitFailure = 1
	exitLoad    = 2
	exitRender  = 3
	exitCompile = 4
	exitIO      = 5
)

func exitCode(err error) int {
	var (
		loadErr     *content.LoadError
		renderErr   *rendering.RenderError
		templateErr *rendering.TemplateError
		compileErr  *compile.CompileError
		ioErr       *compile.IOError
	)
	switch {
	case errors.As(err, &loadErr):
		return exitLoad
	case errors.As(err, &renderErr), errors.As(err, &templateErr):
		return exitRender
	case errors.As(err, &compileErr):
		return exitCompile
	case errors.As(err, &ioErr):
		return exitIO
	default:
		return exitFailure
	}
}
