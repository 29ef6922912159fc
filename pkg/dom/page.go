// Package dom holds a parsed archive page and the operations the search
// layer performs on it: reading and filling the filter form, replacing
// result regions with server-rendered fragments and tracking the active
// pagination item.
//
// A Page is not safe for concurrent use; callers serialize access.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/rubiojr/letterpress/pkg/filter"
)

// Region identifiers used by the archive templates.
const (
	LettersRegion          = "letters"
	PaginationTopRegion    = "pagination-top"
	PaginationBottomRegion = "pagination-bottom"
	MapRegion              = "mapdiv"
	SentimentRegion        = "sentiment-results"
	ChartRegion            = "chart"
	StatsRegion            = "stats"
	MessageRegion          = "message"
	WordCloudRegion        = "wordcloud"
)

const (
	paginationSelector = "ul#pages.pagination"
	activeClass        = "active"
	csrfFieldSelector  = `[name="csrfmiddlewaretoken"]`
)

var (
	ErrNoRegion   = errors.New("region not found")
	ErrNoControl  = errors.New("control not found")
	ErrNoCheckbox = errors.New("no matching checkbox")
	ErrNoOption   = errors.New("no matching option")
)

type Page struct {
	doc *goquery.Document
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return &Page{doc: goquery.NewDocumentFromNode(root)}, nil
}

func ParseString(s string) (*Page, error) {
	return Parse(strings.NewReader(s))
}

// Render serializes the whole document.
func (p *Page) Render() (string, error) {
	return p.doc.Html()
}

func (p *Page) byID(id string) *goquery.Selection {
	return p.doc.Find(`[id="` + id + `"]`).First()
}

// CSRFToken returns the value of the hidden csrfmiddlewaretoken field.
func (p *Page) CSRFToken() (string, bool) {
	field := p.doc.Find(csrfFieldSelector).First()
	if field.Length() == 0 {
		return "", false
	}
	token := field.AttrOr("value", "")
	return token, token != ""
}

// Regions

func (p *Page) SetHTML(region, fragment string) error {
	s := p.byID(region)
	if s.Length() == 0 {
		return fmt.Errorf("%w: #%s", ErrNoRegion, region)
	}
	s.SetHtml(fragment)
	return nil
}

func (p *Page) HTML(region string) (string, error) {
	s := p.byID(region)
	if s.Length() == 0 {
		return "", fmt.Errorf("%w: #%s", ErrNoRegion, region)
	}
	return s.Html()
}

func (p *Page) SetText(region, text string) error {
	s := p.byID(region)
	if s.Length() == 0 {
		return fmt.Errorf("%w: #%s", ErrNoRegion, region)
	}
	s.SetText(text)
	return nil
}

func (p *Page) SetAttr(region, attr, value string) error {
	s := p.byID(region)
	if s.Length() == 0 {
		return fmt.Errorf("%w: #%s", ErrNoRegion, region)
	}
	s.SetAttr(attr, value)
	return nil
}

func (p *Page) Attr(region, attr string) (string, bool) {
	return p.byID(region).Attr(attr)
}

// EnsureRegions appends an empty div to the body for every region the page
// does not have yet.
func (p *Page) EnsureRegions(regions ...string) {
	body := p.doc.Find("body").First()
	for _, id := range regions {
		if p.byID(id).Length() > 0 {
			continue
		}
		body.AppendHtml(`<div id="` + html.EscapeString(id) + `"></div>`)
	}
}

// Pagination

// ClearActive removes the active marker from every item of both pagination
// widgets. It is a no-op when nothing is active.
func (p *Page) ClearActive() {
	p.doc.Find(paginationSelector).Find("." + activeClass).RemoveClass(activeClass)
}

// MarkActive adds the active marker to the item(s) named after page, in
// both widgets. Other items are left alone.
func (p *Page) MarkActive(page int) {
	p.doc.Find(fmt.Sprintf(`li[name="page%d"]`, page)).AddClass(activeClass)
}

// ActivePage reads the label of the first active item. The top widget comes
// first in the document and is authoritative. The second return value is
// false when no item is active or its label is not a number.
func (p *Page) ActivePage() (int, bool) {
	item := p.doc.Find(paginationSelector).Find("." + activeClass).First()
	if item.Length() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(item.Text()))
	if err != nil {
		return 0, false
	}
	return n, true
}

// TextBlocks flattens a fragment into one line per innermost block element,
// with whitespace collapsed. Fragments without block elements give a single
// line.
func TextBlocks(fragment string) []string {
	root, err := html.Parse(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	if err != nil {
		return nil
	}
	doc := goquery.NewDocumentFromNode(root)

	const blocks = "li, p, tr, div, h1, h2, h3, h4, h5, h6, dt, dd"
	var lines []string
	doc.Find(blocks).Each(func(_ int, s *goquery.Selection) {
		if s.Find(blocks).Length() > 0 {
			return
		}
		if line := collapse(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		if line := collapse(doc.Find("body").Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var _ filter.Controls = (*Page)(nil)
