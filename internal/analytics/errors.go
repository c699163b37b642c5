package analytics

import "fmt"

// AnalysisError wraps a repository read failure. Analyses are all-or-nothing:
// callers never receive partial results alongside one of these.
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analytics: %s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func wrapRead(op string, err error) error {
	return &AnalysisError{Op: op, Err: err}
}
