package domain

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound is returned when a node does not belong to the store it is used with.
var ErrNodeNotFound = errors.New("node not found")

// ErrPatchNotFound is returned when a shared patch id cannot be found in the store.
var ErrPatchNotFound = errors.New("patch not found")

// ErrUnknownMode is returned for a dispatch mode name or character outside the known set.
var ErrUnknownMode = errors.New("unknown dispatch mode")

// ErrUnknownPitch is returned for a pitch name outside Scale.
var ErrUnknownPitch = errors.New("unknown pitch")

// ErrMalformedLine is returned for a circuit line that cannot be tokenized.
var ErrMalformedLine = errors.New("malformed line")

// ErrTargetOutOfRange is returned when an edge targets a node id that does not exist.
var ErrTargetOutOfRange = errors.New("edge target out of range")

// DecodeError reports the first offending line of an encoded circuit.
// Decoding is all-or-nothing: a DecodeError means no graph was produced.
type DecodeError struct {
	Line   int // 1-based line number
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode circuit: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("decode circuit: line %d: %s: %v", e.Line, e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
