package entities

import "errors"

// Domain errors for the analytics engine. The engine itself degrades to
// documented defaults instead of failing; these errors only surface at
// the service boundary (bad period argument, missing task in storage).
var (
	ErrInvalidPeriod = errors.New("invalid analytics period")
	ErrTaskNotFound  = errors.New("task not found")
)
