package embedding

import "fmt"

// ProviderError reports a failed call to an embedding provider. Callers must
// not substitute zero vectors when they receive one.
type ProviderError struct {
	Provider string
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider %s failed: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
