package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rubiojr/letterpress/pkg/client"
	"github.com/rubiojr/letterpress/pkg/filter"
	"github.com/rubiojr/letterpress/pkg/log"
)

var logger = log.ForService("search")

// ErrNoActivePage is returned when stepping pages while no page is active.
var ErrNoActivePage = errors.New("no active page")

// View is the part of the page the search layer renders into.
// *dom.Page implements it.
type View interface {
	SetHTML(region, fragment string) error
	HTML(region string) (string, error)
	ClearActive()
	MarkActive(page int)
	ActivePage() (int, bool)
}

// Searcher runs a letter search. *client.Client implements it.
type Searcher interface {
	Search(ctx context.Context, criteria filter.Criteria, pageNumber int) (*client.SearchResult, error)
}

// CriteriaSource snapshots the filter controls. *filter.Reader implements it.
type CriteriaSource interface {
	Get() filter.Criteria
}

// Navigator performs a full page navigation, used when the server answers
// with a redirect_url.
type Navigator interface {
	Navigate(url string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string)

func (f NavigatorFunc) Navigate(url string) { f(url) }

// History stores the snapshot of the page currently shown.
type History interface {
	Replace(snap Snapshot, url string) error
}

// Outcome tells what a search command did.
type Outcome int

const (
	// Skipped: nothing was requested (page step out of bounds).
	Skipped Outcome = iota
	// Rendered: the response was written into the view.
	Rendered
	// Redirected: the server asked for a full navigation.
	Redirected
	// Discarded: a newer search was issued before the response arrived.
	Discarded
	// Failed: the request failed and the view kept its previous state.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Rendered:
		return "rendered"
	case Redirected:
		return "redirected"
	case Discarded:
		return "discarded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Session is the state shared by the controller, presenter and cursor of
// one page. The zero value is an empty session.
type Session struct {
	mu       sync.Mutex
	lastPage int
	active   int // 0 means no active page
	seq      uint64
	criteria filter.Criteria
}

// LastPage returns the page count of the last fresh search.
func (s *Session) LastPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPage
}

// ActivePage returns the active page, false when none is active.
func (s *Session) ActivePage() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.active > 0
}

// Criteria returns the criteria of the search currently rendered.
func (s *Session) Criteria() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Seq returns the sequence number of the last issued search.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// next must be called with mu held.
func (s *Session) next() uint64 {
	s.seq++
	return s.seq
}
