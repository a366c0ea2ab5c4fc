// Package pipeline provides the high-level orchestration for the resume generation process.
package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/compile"
	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/selection"
	"github.com/jonathan/resume-builder/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	State    State  `json:"state"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Recorder persists runs. Recorder failures are logged and never fail a run.
type Recorder interface {
	CreateRun(ctx context.Context, runID uuid.UUID, contentPath, selection string) error
	RecordStep(ctx context.Context, runID uuid.UUID, step, category, status string, duration time.Duration, errMsg string) error
	SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error
	SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, category, text string) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status, artifactPath string) error
}

// Step statuses passed to Recorder.RecordStep
const (
	StepStatusCompleted = "completed"
	StepStatusFailed    = "failed"
)

// Options holds everything one generation run needs. Nothing is read from
// package-level state.
type Options struct {
	ContentPath string
	Selection   types.SelectionRequest
	OutputDir   string

	// Render controls the template and page margins
	Render rendering.Options

	CompilerBinary    string
	CompileTimeout    time.Duration
	BaseName          string
	KeepIntermediates bool
	// SkipCompile stops after writing the LaTeX source
	SkipCompile bool
	// CountPages reports the page count of the compiled PDF when a page
	// counting tool is installed
	CountPages bool

	// Verbose prints boxed summaries of each stage to Out
	Verbose bool
	Out     io.Writer

	Logger     *zap.Logger
	Recorder   Recorder
	OnProgress ProgressCallback
}

// Result describes how far a run got. Generate always returns a non-nil
// Result, also on failure.
type Result struct {
	RunID    uuid.UUID
	State    State
	Selected *types.Selected
	Document *types.RenderedDocument
	// CompileLog is the captured compiler output, also on failure
	CompileLog string
	Pages      int
	Duration   time.Duration
}

// run carries the per-invocation state of Generate
type run struct {
	opts    Options
	ctx     context.Context
	log     *zap.Logger
	printer *observability.Printer
	result  *Result
	started time.Time
	// recorded is set once the recorder knows about the run
	recorded bool
}

// Generate loads content, selects sections, renders LaTeX and compiles it.
// Every failure is terminal for the run; nothing is retried. A LoadError is
// returned before the output directory is touched.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	r := &run{
		opts:    opts,
		ctx:     ctx,
		result:  &Result{RunID: uuid.New(), State: StateIdle},
		started: time.Now(),
	}
	r.log = zap.NewNop()
	if opts.Logger != nil {
		r.log = opts.Logger
	}
	r.log = r.log.With(zap.String("run_id", r.result.RunID.String()))
	if opts.Verbose && opts.Out != nil {
		r.printer = observability.NewPrinter(opts.Out)
	}

	err := r.execute()
	r.result.Duration = time.Since(r.started)
	r.finish(err)
	return r.result, err
}

func (r *run) execute() error {
	if r.opts.ContentPath == "" {
		return &content.LoadError{Message: "content path is required"}
	}
	if r.opts.OutputDir == "" {
		return &compile.IOError{Message: "output directory is required"}
	}

	if r.opts.Recorder != nil {
		err := r.opts.Recorder.CreateRun(r.ctx, r.result.RunID, r.opts.ContentPath, selection.FormatRequest(r.opts.Selection))
		if err != nil {
			r.log.Warn("failed to record run", zap.Error(err))
		} else {
			r.recorded = true
		}
	}
	r.log.Info("starting generation",
		zap.String("content", r.opts.ContentPath),
		zap.String("output_dir", r.opts.OutputDir),
		zap.String("selection", selection.FormatRequest(r.opts.Selection)))

	// Load
	stepStart := time.Now()
	resume, err := content.Load(r.opts.ContentPath)
	if err != nil {
		r.stepFailed(StepLoadContent, stepStart, err)
		return err
	}
	if err := r.advance(StateLoaded, StepLoadContent, stepStart, "Loaded resume content", nil); err != nil {
		return err
	}
	if r.printer != nil {
		r.printer.PrintContentSummary(resume)
	}

	// Select
	stepStart = time.Now()
	selected := selection.Apply(resume, r.opts.Selection)
	r.result.Selected = selected
	counts := make(map[types.Category]int, len(types.Categories()))
	for _, c := range types.Categories() {
		counts[c] = selected.Count(c)
	}
	if err := r.advance(StateSelected, StepSelectSections, stepStart, "Selected resume sections", counts); err != nil {
		return err
	}
	r.record(func(rec Recorder) error {
		return rec.SaveArtifact(r.ctx, r.result.RunID, StepSelectSections, CategorySelection, counts)
	})
	if r.printer != nil {
		r.printer.PrintSelection(resume, selected)
	}

	// Render
	stepStart = time.Now()
	doc, err := rendering.Render(selected, r.opts.Render)
	if err != nil {
		r.stepFailed(StepRenderLaTeX, stepStart, err)
		return err
	}
	r.result.Document = doc
	if err := r.advance(StateRendered, StepRenderLaTeX, stepStart, "Rendered LaTeX resume", nil); err != nil {
		return err
	}
	r.record(func(rec Recorder) error {
		return rec.SaveTextArtifact(r.ctx, r.result.RunID, StepRenderLaTeX, CategoryRendering, doc.Source)
	})

	compiler := r.compiler()

	if r.opts.SkipCompile {
		stepStart = time.Now()
		path, err := compiler.WriteSource(doc.Source, r.opts.OutputDir)
		if err != nil {
			r.stepFailed(StepWriteSource, stepStart, err)
			return err
		}
		doc.SourcePath = path
		r.stepDone(StepWriteSource, stepStart, "Wrote LaTeX source", path)
		return nil
	}

	// Compile
	if err := r.transition(StateCompiling); err != nil {
		return err
	}
	stepStart = time.Now()
	doc.SourcePath = compiler.SourcePath(r.opts.OutputDir)
	compiled, err := compiler.Compile(r.ctx, doc.Source, r.opts.OutputDir)
	if err != nil {
		var compileErr *compile.CompileError
		if errors.As(err, &compileErr) {
			r.result.CompileLog = compileErr.Log
			if r.printer != nil {
				r.printer.PrintCompileLog(compileErr.Log)
			}
		}
		_ = r.transition(StateCompileFailed)
		r.stepFailed(StepCompilePDF, stepStart, err)
		return err
	}

	doc.SourcePath = compiled.SourcePath
	doc.ArtifactPath = compiled.ArtifactPath
	r.result.CompileLog = compiled.Log

	if r.opts.CountPages {
		pages, err := compile.CountPages(r.ctx, compiled.ArtifactPath)
		if err != nil {
			r.log.Warn("could not count pages", zap.Error(err))
		} else {
			r.result.Pages = pages
		}
	}

	if err := r.advance(StateCompiled, StepCompilePDF, stepStart, "Compiled PDF", compiled.ArtifactPath); err != nil {
		return err
	}
	if r.printer != nil {
		r.printer.PrintCompileResult(observability.CompileSummary{
			SourcePath:   compiled.SourcePath,
			ArtifactPath: compiled.ArtifactPath,
			Duration:     compiled.Duration,
			Pages:        r.result.Pages,
		})
	}
	return nil
}

func (r *run) compiler() *compile.Compiler {
	return &compile.Compiler{
		Binary:            r.opts.CompilerBinary,
		Timeout:           r.opts.CompileTimeout,
		BaseName:          r.opts.BaseName,
		KeepIntermediates: r.opts.KeepIntermediates,
		Assets: map[string][]byte{
			rendering.DocumentClassName + ".cls": rendering.DocumentClass(),
		},
		Logger: r.log,
	}
}

// transition moves the run to next, rejecting skipped or repeated stages
func (r *run) transition(next State) error {
	if !r.result.State.CanTransition(next) {
		return &TransitionError{From: r.result.State, To: next}
	}
	r.log.Debug("state transition", zap.String("from", string(r.result.State)), zap.String("to", string(next)))
	r.result.State = next
	return nil
}

// advance transitions to next and reports the finished step
func (r *run) advance(next State, step string, started time.Time, message string, content any) error {
	if err := r.transition(next); err != nil {
		return err
	}
	r.stepDone(step, started, message, content)
	return nil
}

func (r *run) stepDone(step string, started time.Time, message string, content any) {
	elapsed := time.Since(started)
	r.log.Debug(message, zap.String("step", step), zap.Duration("elapsed", elapsed))
	r.emitProgress(step, message, content)
	r.record(func(rec Recorder) error {
		return rec.RecordStep(r.ctx, r.result.RunID, step, categoryOf(step), StepStatusCompleted, elapsed, "")
	})
}

func (r *run) stepFailed(step string, started time.Time, err error) {
	elapsed := time.Since(started)
	r.log.Error("step failed", zap.String("step", step), zap.Error(err))
	r.emitProgress(step, err.Error(), nil)
	r.record(func(rec Recorder) error {
		return rec.RecordStep(r.ctx, r.result.RunID, step, categoryOf(step), StepStatusFailed, elapsed, err.Error())
	})
}

// emitProgress calls the progress callback if configured
func (r *run) emitProgress(step, message string, content any) {
	if r.opts.OnProgress == nil {
		return
	}
	r.opts.OnProgress(ProgressEvent{
		Step:     step,
		Category: categoryOf(step),
		State:    r.result.State,
		Message:  message,
		RunID:    r.result.RunID.String(),
		Content:  content,
	})
}

// record runs fn against the recorder once the run has been created there,
// logging failures
func (r *run) record(fn func(Recorder) error) {
	if !r.recorded {
		return
	}
	if err := fn(r.opts.Recorder); err != nil {
		r.log.Warn("failed to record run", zap.Error(err))
	}
}

// finish records the terminal status of the run
func (r *run) finish(err error) {
	status := string(r.result.State)
	if err != nil && r.result.State != StateCompileFailed {
		status = "failed"
	}

	artifact := ""
	if r.result.Document != nil {
		artifact = r.result.Document.ArtifactPath
	}
	r.record(func(rec Recorder) error {
		return rec.CompleteRun(r.ctx, r.result.RunID, status, artifact)
	})

	fields := []zap.Field{
		zap.String("state", string(r.result.State)),
		zap.Duration("elapsed", r.result.Duration),
	}
	if err != nil {
		r.log.Info("generation failed", append(fields, zap.Error(err))...)
		return
	}
	r.log.Info("generation finished", fields...)
}
