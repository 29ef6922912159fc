package search

import (
	"fmt"

	"github.com/rubiojr/letterpress/pkg/client"
	"github.com/rubiojr/letterpress/pkg/dom"
)

// Presenter writes search results into the view.
type Presenter struct {
	s       *Session
	view    View
	cursor  *PageCursor
	history History
}

// NewPresenter creates a presenter that renders results into view.
func NewPresenter(s *Session, view View, cursor *PageCursor, history History) *Presenter {
	return &Presenter{s: s, view: view, cursor: cursor, history: history}
}

// Show renders a search response for pageNumber. Responses carrying
// pagination markup start over at page 1.
func (p *Presenter) Show(result *client.SearchResult, pageNumber int) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.show(result, pageNumber)
}

// Restore renders a snapshot taken from history. The active indicator comes
// from the restored markup and is not touched.
func (p *Presenter) Restore(snap Snapshot) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.restore(snap)
}

func (p *Presenter) show(result *client.SearchResult, pageNumber int) error {
	if err := p.view.SetHTML(dom.LettersRegion, result.Letters); err != nil {
		return fmt.Errorf("rendering letters: %w", err)
	}

	if result.HasPagination() {
		if err := p.setPagination(result.Pagination); err != nil {
			return err
		}
		p.s.lastPage = result.Pages
		p.cursor.set(1)
	} else {
		p.cursor.set(pageNumber)
	}

	top, err := p.view.HTML(dom.PaginationTopRegion)
	if err != nil {
		return fmt.Errorf("reading pagination: %w", err)
	}

	snap := Snapshot{
		Result:     *result,
		Pagination: top,
		LastPage:   p.s.lastPage,
		Page:       p.s.active,
		Criteria:   p.s.criteria,
	}
	if p.history == nil {
		return nil
	}
	if err := p.history.Replace(snap, PageURL(pageNumber)); err != nil {
		return fmt.Errorf("replacing history entry: %w", err)
	}
	return nil
}

func (p *Presenter) restore(snap Snapshot) error {
	if err := p.view.SetHTML(dom.LettersRegion, snap.Result.Letters); err != nil {
		return fmt.Errorf("restoring letters: %w", err)
	}
	if err := p.setPagination(snap.Pagination); err != nil {
		return err
	}

	// Page-navigation results carry no page count.
	p.s.lastPage = snap.Result.Pages
	if p.s.lastPage == 0 {
		p.s.lastPage = snap.LastPage
	}
	p.s.active, _ = p.view.ActivePage()
	p.s.criteria = snap.Criteria
	return nil
}

func (p *Presenter) setPagination(markup string) error {
	for _, region := range []string{dom.PaginationTopRegion, dom.PaginationBottomRegion} {
		if err := p.view.SetHTML(region, markup); err != nil {
			return fmt.Errorf("rendering pagination: %w", err)
		}
	}
	return nil
}
