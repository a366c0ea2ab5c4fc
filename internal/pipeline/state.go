package pipeline

import "fmt"

// State is the position of one generation run in its lifecycle
type State string

const (
	StateIdle          State = "idle"
	StateLoaded        State = "loaded"
	StateSelected      State = "selected"
	StateRendered      State = "rendered"
	StateCompiling     State = "compiling"
	StateCompiled      State = "compiled"
	StateCompileFailed State = "compile_failed"
)

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == StateCompiled || s == StateCompileFailed
}

// transitions lists the states reachable from each state
var transitions = map[State][]State{
	StateIdle:      {StateLoaded},
	StateLoaded:    {StateSelected},
	StateSelected:  {StateRendered},
	StateRendered:  {StateCompiling},
	StateCompiling: {StateCompiled, StateCompileFailed},
}

// CanTransition reports whether a run in state s may move to next
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionError represents an attempt to skip or repeat a stage
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: %s -> %s", e.From, e.To)
}

// Stage step names, used in progress events and run records
const (
	StepLoadContent    = "load_content"
	StepSelectSections = "select_sections"
	StepRenderLaTeX    = "render_latex"
	StepWriteSource    = "write_source"
	StepCompilePDF     = "compile_pdf"
)

// Stage categories
const (
	CategoryContent     = "content"
	CategorySelection   = "selection"
	CategoryRendering   = "rendering"
	CategoryCompilation = "compilation"
)

// StageDefinition describes one stage of a run
type StageDefinition struct {
	Step     string
	Category string
	// Reaches is the state a successful stage moves the run into
	Reaches State
}

// Stages lists the stages of a run in execution order. write_source is only
// used when compilation is skipped and leaves the run in StateRendered.
var Stages = []StageDefinition{
	{Step: StepLoadContent, Category: CategoryContent, Reaches: StateLoaded},
	{Step: StepSelectSections, Category: CategorySelection, Reaches: StateSelected},
	{Step: StepRenderLaTeX, Category: CategoryRendering, Reaches: StateRendered},
	{Step: StepWriteSource, Category: CategoryCompilation, Reaches: StateRendered},
	{Step: StepCompilePDF, Category: CategoryCompilation, Reaches: StateCompiled},
}

// categoryOf returns the category of a stage step
func categoryOf(step string) string {
	for _, s := range Stages {
		if s.Step == step {
			return s.Category
		}
	}
	return ""
}
