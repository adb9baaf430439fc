package engine

import "errors"

// ErrStopped is returned for Execute calls made after Stop, and for calls
// still queued when the Run loop exits.
var ErrStopped = errors.New("engine stopped")
