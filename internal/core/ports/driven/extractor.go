package driven

import "github.com/custodia-labs/wikisearch/internal/core/domain"

// FragmentExtractor splits a page's rendered markup into fragments.
//
// The result is in document order and always ends with the page's
// sentinel fragment, even when the markup has no headings or content.
type FragmentExtractor interface {
	Extract(doc domain.Document) ([]domain.Fragment, error)
}
