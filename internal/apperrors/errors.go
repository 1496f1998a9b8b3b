package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrStateConflict indicates that a command is not valid for the aggregate's
// current lifecycle stage (e.g. depositing to a closed account).
var ErrStateConflict = errors.New("state conflict")

// ErrConcurrencyConflict indicates that another writer appended to the same
// aggregate between load and append. Orchestration may retry the whole
// load-decide-append cycle.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// ErrUnknownEventType indicates an event type outside the closed set was
// encountered during apply or projection. This signals a schema mismatch and
// must never be silently skipped.
var ErrUnknownEventType = errors.New("unknown event type")
