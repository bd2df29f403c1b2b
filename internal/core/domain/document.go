package domain

import "time"

// Document is a rendered wiki page as stored in the corpus.
// It is read-only input to the indexing pipeline.
type Document struct {
	// Path is the unique page path (e.g. "guides/install").
	Path string

	// LocaleCode is the page locale (e.g. "en").
	LocaleCode string

	// Title is the human-readable page title.
	Title string

	// Description is the short page summary.
	Description string

	// Render is the rendered HTML markup of the page.
	Render string

	// IsPublished marks pages visible to readers.
	IsPublished bool

	// IsPrivate marks pages restricted to their owner.
	IsPrivate bool

	// UpdatedAt is when the page was last saved.
	UpdatedAt time.Time
}

// IsIndexable reports whether the page may appear in search results.
// Only published, non-private pages are indexed.
func (d Document) IsIndexable() bool {
	return d.IsPublished && !d.IsPrivate
}
