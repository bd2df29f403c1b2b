package domain

// FragmentKind classifies an extracted fragment.
type FragmentKind string

// Fragment kinds. The trailing page sentinel has no kind.
const (
	// FragmentKindHeading is an h1..h6 element.
	FragmentKindHeading FragmentKind = "heading"

	// FragmentKindContent is an element carrying the content marker class.
	FragmentKindContent FragmentKind = "content"
)

// HeadingTag is the payload type recorded for heading fragments.
const HeadingTag = "header"

// Fragment is one indexable unit of a page: a heading, a content block,
// or the trailing sentinel that stands for the page as a whole.
//
// The JSON names are the payload keys stored alongside each vector.
type Fragment struct {
	// ID is the anchor id of the source element. May be empty.
	ID string `json:"id,omitempty"`

	// Kind is heading or content; empty for the sentinel.
	Kind FragmentKind `json:"kind,omitempty"`

	// Tag is "header" for headings, otherwise the element tag name.
	Tag string `json:"type,omitempty"`

	// Text is the normalised plain text of the element.
	Text string `json:"content,omitempty"`

	// NearestHeadingText is the text of the closest preceding heading.
	// Only set on content fragments.
	NearestHeadingText string `json:"headerContent,omitempty"`

	// NearestHeadingID is the anchor id of the closest preceding heading.
	// Only set on content fragments.
	NearestHeadingID string `json:"headerId,omitempty"`

	// DocumentTitle is the owning page title.
	DocumentTitle string `json:"pageTitle"`

	// DocumentPath is the owning page path.
	DocumentPath string `json:"pageUrl"`
}

// IsSentinel reports whether f is the page-level sentinel fragment.
func (f Fragment) IsSentinel() bool {
	return f.Kind == ""
}

// EmbeddingText returns the text embedded for f.
// Fragments without text (including the sentinel) fall back to the page title.
func (f Fragment) EmbeddingText() string {
	if f.Text != "" {
		return f.Text
	}
	return f.DocumentTitle
}

// SentinelFragment returns the trailing fragment for a page.
func SentinelFragment(doc Document) Fragment {
	return Fragment{
		DocumentTitle: doc.Title,
		DocumentPath:  doc.Path,
	}
}
