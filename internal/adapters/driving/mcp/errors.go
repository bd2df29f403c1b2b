// Package mcp provides an MCP (Model Context Protocol) server adapter for wikisearch.
// It lets AI assistants query the wiki index, trigger rebuilds and read pages.
package mcp

import "errors"

// ErrMissingSearchEngine is returned when the search engine is not provided.
var ErrMissingSearchEngine = errors.New("mcp: search engine is required")
