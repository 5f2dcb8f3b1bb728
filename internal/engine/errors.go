package engine

import (
	"fmt"
	"strings"
)

// UnknownMethodError is returned by Run when a requested method is not
// registered. No method runs in that case.
type UnknownMethodError struct {
	Name  string
	Known []string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown method %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// StrategyFailure records why one method produced no layout. It is carried
// in the degraded result's error note and never returned from Run.
type StrategyFailure struct {
	Method string
	Err    error
}

func (e *StrategyFailure) Error() string {
	return fmt.Sprintf("method %s failed: %v", e.Method, e.Err)
}

func (e *StrategyFailure) Unwrap() error {
	return e.Err
}

// SearchLimitError is returned by an exhaustive strategy when the request
// has more demand instances than Settings.ExactMaxPieces allows.
type SearchLimitError struct {
	Pieces int
	Limit  int
}

func (e *SearchLimitError) Error() string {
	return fmt.Sprintf("%d demand pieces exceed the exact search limit of %d (raise exact_max_pieces to search them)", e.Pieces, e.Limit)
}
