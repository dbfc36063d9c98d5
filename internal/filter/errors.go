package filter

import "fmt"

// ValidationError reports one broken clause path. Multiple
// ValidationErrors are aggregated with go.uber.org/multierr so a
// single bad document reports every problem at once, each with a
// human-readable path into the document.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func validationErrf(path, format string, args ...any) error {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
