package tui

import "errors"

// ErrMissingRouter is returned when the router is not provided.
var ErrMissingRouter = errors.New("tui: router is required")
