package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render and compile a resume PDF",
	Long: `Loads resume content, keeps the first N entries of each section, renders the
LaTeX source and compiles it to <out>/<base-name>.pdf.

On a compiler failure the compiler log is printed and no PDF is left behind.`,
	RunE: runBuild,
}

var buildFlags generateFlags

func init() {
	buildFlags.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := buildFlags.resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, closeDB := openRecorder(ctx, cfg.DatabaseURL)
	defer closeDB()

	opts, err := pipelineOptions(cfg, recorderOf(database))
	if err != nil {
		return err
	}

	result, err := pipeline.Generate(ctx, opts)
	if err != nil {
		if result.CompileLog != "" && !cfg.Verbose {
			_, _ = fmt.Fprintf(os.Stderr, "%s\n", result.CompileLog)
		}
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully compiled resume\n")
	_, _ = fmt.Fprintf(os.Stdout, "Source: %s\n", result.Document.SourcePath)
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", result.Document.ArtifactPath)
	if result.Pages > 0 {
		_, _ = fmt.Fprintf(os.Stdout, "Pages: %d\n", result.Pages)
	}
	if database != nil {
		_, _ = fmt.Fprintf(os.Stdout, "Run: %s\n", result.RunID)
	}
	return nil
}
