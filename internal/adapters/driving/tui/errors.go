package tui

import "errors"

// ErrMissingSearchEngine is returned when the search engine is not provided.
var ErrMissingSearchEngine = errors.New("tui: search engine is required")

// ErrInvalidPorts is returned when no ports are provided.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
