package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a generation run record
type Run struct {
	ID           uuid.UUID  `json:"id"`
	ContentPath  string     `json:"content_path"`
	Selection    string     `json:"selection"`
	Status       string     `json:"status"`
	ArtifactPath string     `json:"artifact_path,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// RunStatusRunning is the status of a run that has not finished. Finished
// runs carry the pipeline state they ended in, or "failed".
const RunStatusRunning = "running"

// RunStep represents a single step execution for a generation run
type RunStep struct {
	ID           uuid.UUID `json:"id"`
	RunID        uuid.UUID `json:"run_id"`
	Step         string    `json:"step"`
	Category     string    `json:"category"`
	Status       string    `json:"status"`
	DurationMs   *int      `json:"duration_ms,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
