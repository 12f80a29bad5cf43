package batch

import (
	"errors"
	"fmt"
)

// ErrNoTranslator is returned by Run when the orchestrator has no backend.
var ErrNoTranslator = errors.New("no translator configured")

// TransportError is a failed call into the Translator. It aborts the run;
// batches written before it stay in place.
type TransportError struct {
	Batch Batch
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("translate batch %s: %v", e.Batch, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
