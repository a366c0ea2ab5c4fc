package rendering

import "fmt"

// TemplateError represents an error reading, parsing or executing a LaTeX
// template. Path is empty for the embedded template.
type TemplateError struct {
	Path    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("template error: %s", msg)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError means the selected content cannot be rendered. Field names the
// offending value (e.g. "experiences[2].bullets[0]") when one is known.
type RenderError struct {
	Field   string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("render error: %s", msg)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
