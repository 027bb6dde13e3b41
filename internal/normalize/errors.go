package normalize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyPayload = errors.New("empty payload")
	ErrMissingRoot  = errors.New("payload has no viewer.repositories.nodes")
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
	ErrNullNode     = errors.New("null repository node")

	// ErrMalformedNode marks a node whose JSON does not have the repository shape.
	ErrMalformedNode = errors.New("malformed repository node")
)

// NodeError describes one repository node that could not be normalized.
type NodeError struct {
	Index int
	Name  string
	Err   error
}

func (e NodeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("node %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("node %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e NodeError) Unwrap() error { return e.Err }

// BatchWarning is returned alongside the records that did normalize.
// It never means the batch failed.
type BatchWarning struct {
	Total   int
	Skipped []NodeError
	Root    error
}

func (w *BatchWarning) Error() string {
	if w.Root != nil {
		return w.Root.Error()
	}
	msgs := make([]string, 0, len(w.Skipped))
	for _, s := range w.Skipped {
		msgs = append(msgs, s.Error())
	}
	return fmt.Sprintf("skipped %d of %d repository nodes: %s", len(w.Skipped), w.Total, strings.Join(msgs, "; "))
}

func (w *BatchWarning) Unwrap() []error {
	errs := make([]error, 0, len(w.Skipped)+1)
	if w.Root != nil {
		errs = append(errs, w.Root)
	}
	for _, s := range w.Skipped {
		errs = append(errs, s)
	}
	return errs
}
