package compile

import "fmt"

// CompileError represents a failed compiler run: non-zero exit, timeout,
// missing binary or missing artifact. Log holds the captured stdout and
// stderr of the compiler when it ran.
type CompileError struct {
	Message  string
	Log      string
	ExitCode int
	TimedOut bool
	Cause    error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LaTeX compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("LaTeX compilation error: %s", e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// IOError represents a failure to create or write an output path
type IOError struct {
	Path    string
	Message string
	Cause   error
}

func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("io error: %s: %s: %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("io error: %s: %s", e.Message, e.Path)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}
