package projects

import "errors"

// ErrNotFound indicates a save targeted an id the table has never seen.
// Callers must create projects through Add before saving against them.
var ErrNotFound = errors.New("project not found")

// ErrValidation indicates a malformed import payload. It is always returned
// before any destructive write happens.
var ErrValidation = errors.New("invalid import payload")
