package html

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FragmentExtractor = (*Extractor)(nil)

// ContentClass marks the elements that carry page content.
const ContentClass = "content"

const pilcrow = "¶"

// fragmentSelector matches every heading and content element.
// goquery returns matches in document order.
var fragmentSelector = "h1, h2, h3, h4, h5, h6, ." + ContentClass

// Extractor turns a page's rendered markup into fragments.
type Extractor struct{}

// New creates a new fragment extractor.
func New() *Extractor {
	return &Extractor{}
}

// heading is the running fold state: the last heading seen.
type heading struct {
	id   string
	text string
}

// Extract returns the page's fragments in document order followed by
// the page sentinel. A page without matching elements yields only the sentinel.
func (e *Extractor) Extract(doc domain.Document) ([]domain.Fragment, error) {
	page, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Render))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.Path, err)
	}

	var (
		fragments []domain.Fragment
		current   heading
	)
	page.Find(fragmentSelector).Each(func(_ int, sel *goquery.Selection) {
		var f domain.Fragment
		f, current = fold(current, sel, doc)
		fragments = append(fragments, f)
	})

	return append(fragments, domain.SentinelFragment(doc)), nil
}

// fold builds the fragment for sel and returns the next heading state.
func fold(state heading, sel *goquery.Selection, doc domain.Document) (domain.Fragment, heading) {
	tag := goquery.NodeName(sel)
	f := domain.Fragment{
		ID:            sel.AttrOr("id", ""),
		Text:          NormaliseText(sel.Text()),
		DocumentTitle: doc.Title,
		DocumentPath:  doc.Path,
	}

	if isHeading(tag) {
		f.Kind = domain.FragmentKindHeading
		f.Tag = domain.HeadingTag
		return f, heading{id: f.ID, text: f.Text}
	}

	f.Kind = domain.FragmentKindContent
	f.Tag = tag
	f.NearestHeadingID = state.id
	f.NearestHeadingText = state.text
	return f, state
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// NormaliseText strips newlines and pilcrows, collapses whitespace runs
// to a single space and trims the result.
func NormaliseText(s string) string {
	s = strings.NewReplacer("\r", "", "\n", "", pilcrow, "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
