package taxonomy

import "fmt"

// LoadError reports a taxonomy source that could not be read or decoded.
type LoadError struct {
	Source string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load taxonomy from %s: %v", e.Source, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ValidationError reports a taxonomy entry that violates the data model.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("taxonomy validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("taxonomy validation error: %s", e.Message)
}
