package tickets

import "fmt"

// ShapeError: a pick does not have the expected count of numbers.
type ShapeError struct {
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("pick has %d numbers, want %d", e.Got, e.Want)
}

// NumberError: an entry of a pick cannot be read as an integer.
type NumberError struct {
	Pick  int // 1-based position in the batch, 0 when unknown
	Value any
}

func (e *NumberError) Error() string {
	if e.Pick > 0 {
		return fmt.Sprintf("pick %d: %v is not an integer", e.Pick, e.Value)
	}
	return fmt.Sprintf("%v is not an integer", e.Value)
}

// RangeError is only produced when the range rule is switched on.
type RangeError struct {
	Value    string
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("number %s is outside %d..%d", e.Value, e.Min, e.Max)
}

type BatchSizeError struct {
	Want int
	Got  int
}

func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("submission has %d picks, want exactly %d", e.Got, e.Want)
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// PersistenceError means the submission was rolled back.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save submission: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
