package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded generation runs",
	Long:  "Lists and shows generation runs recorded in PostgreSQL. Requires --db-url or the DATABASE_URL environment variable.",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run with its steps",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

var (
	runsLimit      int
	runsShowSource bool
)

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs to list")
	runsShowCmd.Flags().BoolVar(&runsShowSource, "source", false, "Print the rendered LaTeX source of the run")

	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func connectRuns(ctx context.Context) (*db.DB, error) {
	url := databaseURL
	if url == "" {
		url = config.FromEnv().DatabaseURL
	}
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := connectRuns(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No runs recorded")
		return nil
	}

	for _, run := range runs {
		_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %-14s  %s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Status, run.ContentPath)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run-id: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := connectRuns(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}

	if runsShowSource {
		source, err := database.GetTextArtifact(ctx, runID, pipeline.StepRenderLaTeX)
		if err != nil {
			return err
		}
		if source == "" {
			return fmt.Errorf("run %s has no rendered source", runID)
		}
		_, _ = fmt.Fprint(os.Stdout, source)
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "Run:       %s\n", run.ID)
	_, _ = fmt.Fprintf(os.Stdout, "Status:    %s\n", run.Status)
	_, _ = fmt.Fprintf(os.Stdout, "Content:   %s\n", run.ContentPath)
	if run.Selection != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Selection: %s\n", run.Selection)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Started:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.CompletedAt != nil {
		_, _ = fmt.Fprintf(os.Stdout, "Finished:  %s\n", run.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	if run.ArtifactPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Output:    %s\n", run.ArtifactPath)
	}

	raw, err := database.GetArtifact(ctx, runID, pipeline.StepSelectSections)
	if err != nil {
		return err
	}
	if raw != nil {
		var counts map[types.Category]int
		if err := json.Unmarshal(raw, &counts); err == nil {
			_, _ = fmt.Fprintf(os.Stdout, "Selected:  ")
			for i, c := range types.Categories() {
				if i > 0 {
					_, _ = fmt.Fprint(os.Stdout, ", ")
				}
				_, _ = fmt.Fprintf(os.Stdout, "%s=%d", c, counts[c])
			}
			_, _ = fmt.Fprintln(os.Stdout)
		}
	}

	steps, err := database.ListRunSteps(ctx, runID)
	if err != nil {
		return err
	}
	if len(steps) > 0 {
		_, _ = fmt.Fprintln(os.Stdout, "Steps:")
	}
	for _, step := range steps {
		duration := "-"
		if step.DurationMs != nil {
			duration = fmt.Sprintf("%dms", *step.DurationMs)
		}
		_, _ = fmt.Fprintf(os.Stdout, "  %-16s %-10s %8s", step.Step, step.Status, duration)
		if step.ErrorMessage != nil {
			_, _ = fmt.Fprintf(os.Stdout, "  %s", *step.ErrorMessage)
		}
		_, _ = fmt.Fprintln(os.Stdout)
	}
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run-id: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := connectRuns(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.DeleteRun(ctx, runID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Deleted run %s\n", runID)
	return nil
}
