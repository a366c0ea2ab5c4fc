// Package content provides functionality to load and validate resume content files.
package content

import "fmt"

// LoadError represents an error reading, parsing or validating a content file
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		if e.Cause != nil {
			return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
		}
		return fmt.Sprintf("load error: %s", e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
