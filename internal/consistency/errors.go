package consistency

import (
	"errors"
	"fmt"
)

var ErrUnresolvedReference = errors.New("unresolved reference")

// StageError names the stage a before-change failure came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// PropagationError is returned alongside a persisted document when an after
// stage failed. The triggering write stands; the stage's own writes were
// rolled back.
type PropagationError struct {
	Collection string
	DocumentID string
	Stage      string
	Err        error
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("%s %s saved but stage %s failed: %v", e.Collection, e.DocumentID, e.Stage, e.Err)
}

func (e *PropagationError) Unwrap() error { return e.Err }
