// Package selection picks which resume entries make it into a rendering.
package selection

import "fmt"

// RequestError reports a malformed "category=count" pair. Part is the pair
// as the user wrote it.
type RequestError struct {
	Part    string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid selection %q: %s: %v", e.Part, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid selection %q: %s", e.Part, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
