package db

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/pipeline"
)

var _ pipeline.Recorder = (*DB)(nil)

// setupTestDB connects to the database named by DATABASE_URL and creates the
// schema. Skipped if DATABASE_URL is not set or the connection fails.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"generation_runs", "run_steps", "artifacts"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Equal(t, 3, strings.Count(schemaSQL, "CREATE TABLE"))
}

func TestRunType(t *testing.T) {
	run := Run{
		ContentPath: "resume.json",
		Selection:   "experiences=3",
		Status:      RunStatusRunning,
	}

	assert.Equal(t, "resume.json", run.ContentPath)
	assert.Equal(t, "running", run.Status)
	assert.Nil(t, run.CompletedAt)
}

func TestConnect_InvalidURL(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Connect(ctx, "not a url://")
	assert.Error(t, err)
}

func TestRunLifecycle_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID := uuid.New()
	require.NoError(t, db.CreateRun(ctx, runID, "testdata/resume.json", "experiences=2"))
	defer func() { _ = db.DeleteRun(ctx, runID) }()

	run, err := db.GetRun(ctx, runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, "experiences=2", run.Selection)
	assert.Nil(t, run.CompletedAt)

	require.NoError(t, db.RecordStep(ctx, runID, "load_content", "content", "completed", 12*time.Millisecond, ""))
	require.NoError(t, db.RecordStep(ctx, runID, "compile_pdf", "compilation", "failed", time.Second, "exit status 1"))
	require.NoError(t, db.RecordStep(ctx, runID, "compile_pdf", "compilation", "completed", 2*time.Second, ""))

	steps, err := db.ListRunSteps(ctx, runID)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	byName := map[string]RunStep{}
	for _, s := range steps {
		byName[s.Step] = s
	}
	assert.Equal(t, "completed", byName["compile_pdf"].Status)
	assert.Nil(t, byName["compile_pdf"].ErrorMessage)
	require.NotNil(t, byName["load_content"].DurationMs)
	assert.Equal(t, 12, *byName["load_content"].DurationMs)

	require.NoError(t, db.SaveTextArtifact(ctx, runID, "render_latex", "rendering", `\documentclass{resume}`))
	text, err := db.GetTextArtifact(ctx, runID, "render_latex")
	require.NoError(t, err)
	assert.Equal(t, `\documentclass{resume}`, text)

	require.NoError(t, db.SaveArtifact(ctx, runID, "select_sections", "selection", map[string]int{"experiences": 2}))
	raw, err := db.GetArtifact(ctx, runID, "select_sections")
	require.NoError(t, err)
	assert.JSONEq(t, `{"experiences": 2}`, string(raw))

	require.NoError(t, db.CompleteRun(ctx, runID, "compiled", "out/resume.pdf"))
	run, err = db.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, "compiled", run.Status)
	assert.Equal(t, "out/resume.pdf", run.ArtifactPath)
	assert.NotNil(t, run.CompletedAt)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	var found bool
	for _, r := range runs {
		if r.ID == runID {
			found = true
		}
	}
	assert.True(t, found, "ListRuns should include the new run")
}

func TestGetRun_NotFound_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	run, err := db.GetRun(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, run)

	text, err := db.GetTextArtifact(context.Background(), uuid.New(), "render_latex")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCompleteRun_UnknownRun_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.CompleteRun(context.Background(), uuid.New(), "compiled", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}
