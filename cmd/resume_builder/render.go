package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/selection"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the LaTeX source without compiling it",
	Long:  "Loads resume content, keeps the first N entries of each section and writes the LaTeX source to <out>/<base-name>.tex. With --stdout the source is printed instead.",
	RunE:  runRender,
}

var (
	renderFlags  generateFlags
	renderStdout bool
)

func init() {
	renderFlags.register(renderCmd)
	renderCmd.Flags().BoolVar(&renderStdout, "stdout", false, "Print the LaTeX source instead of writing it to the output directory")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := renderFlags.resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if renderStdout {
		return printSource(cfg)
	}

	database, closeDB := openRecorder(ctx, cfg.DatabaseURL)
	defer closeDB()

	opts, err := pipelineOptions(cfg, recorderOf(database))
	if err != nil {
		return err
	}
	opts.SkipCompile = true

	result, err := pipeline.Generate(ctx, opts)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully rendered LaTeX resume\n")
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", result.Document.SourcePath)
	return nil
}

// printSource renders the document to stdout without touching the output
// directory or the run store
func printSource(cfg config.Config) error {
	opts, err := pipelineOptions(cfg, nil)
	if err != nil {
		return err
	}

	resume, err := content.Load(opts.ContentPath)
	if err != nil {
		return err
	}
	doc, err := rendering.Render(selection.Apply(resume, opts.Selection), opts.Render)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprint(os.Stdout, doc.Source)
	return nil
}
