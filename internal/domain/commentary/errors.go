package commentary

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrSchemaViolation aborts a run: the input does not match the event log schema.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrOutputWrite aborts a run: the dataset could not be persisted.
	ErrOutputWrite = errors.New("output write failed")

	ErrDuplicateSide    = errors.New("duplicate side team")
	ErrMatchMismatch    = errors.New("match id mismatch")
	ErrInconsistentRows = errors.New("inconsistent long-format rows")
)

// SideCountError reports a match that does not have exactly two sides.
type SideCountError struct {
	MatchID string
	Count   int
	Teams   []string
}

func (e *SideCountError) Error() string {
	return fmt.Sprintf("match %s has %d sides %v, want 2", e.MatchID, e.Count, e.Teams)
}

// OutputError reports a failure persisting the dataset to Target. It matches
// ErrOutputWrite and unwraps to the underlying cause.
type OutputError struct {
	Target string
	Err    error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrOutputWrite, e.Target, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

func (e *OutputError) Is(target error) bool {
	return target == ErrOutputWrite
}
