package pipeline

import "fmt"

// ErrorKind classifies a stage failure. Only ReviewFetch aborts a run,
// and only when a thread id was actually supplied; every other kind
// degrades the state and lets the run finish.
type ErrorKind string

const (
	ErrKindReviewFetch ErrorKind = "review_fetch_failed"
	ErrKindExtraction  ErrorKind = "extraction_failed"
	ErrKindGeneration  ErrorKind = "generation_failed"
	ErrKindPersistence ErrorKind = "persistence_failed"
)

type StageError struct {
	Kind  ErrorKind
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

func newStageError(kind ErrorKind, cause error) *StageError {
	return &StageError{Kind: kind, Cause: cause}
}
