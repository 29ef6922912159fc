package search

import (
	"context"
	"fmt"
)

// Controller is the single entry point for search commands on one page.
// Its methods are safe for concurrent use.
type Controller struct {
	s         *Session
	searcher  Searcher
	criteria  CriteriaSource
	navigator Navigator
	cursor    *PageCursor
	presenter *Presenter
}

func NewController(searcher Searcher, view View, criteria CriteriaSource, navigator Navigator, history History) *Controller {
	c := &Controller{
		s:         &Session{},
		searcher:  searcher,
		criteria:  criteria,
		navigator: navigator,
	}
	c.cursor = NewPageCursor(c.s, view, c.DoSearch)
	c.presenter = NewPresenter(c.s, view, c.cursor, history)
	return c
}

// Session returns the state shared by the controller parts.
func (c *Controller) Session() *Session {
	return c.s
}

// Cursor returns the page cursor.
func (c *Controller) Cursor() *PageCursor {
	return c.cursor
}

// Presenter returns the results presenter.
func (c *Controller) Presenter() *Presenter {
	return c.presenter
}

// DoSearch searches for pageNumber with the current filters. Page 0 is a
// fresh search.
//
// On a transport error the error is returned with Failed and the view is
// left as it was before the search. A response that was overtaken by a
// newer search is dropped with Discarded.
func (c *Controller) DoSearch(ctx context.Context, pageNumber int) (Outcome, error) {
	if pageNumber < 0 {
		return Skipped, fmt.Errorf("invalid page number %d", pageNumber)
	}

	c.s.mu.Lock()
	previous := c.s.active
	c.cursor.clear()
	criteria := c.criteria.Get()
	seq := c.s.next()
	c.s.mu.Unlock()

	logger.Debugf("search #%d for page %d", seq, pageNumber)
	result, err := c.searcher.Search(ctx, criteria, pageNumber)

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if seq != c.s.seq {
		logger.Debugf("dropping response #%d, #%d is newer", seq, c.s.seq)
		return Discarded, nil
	}

	if err != nil {
		c.cursor.set(previous)
		return Failed, err
	}

	if result.RedirectURL != "" {
		logger.Infof("server redirected to %s", result.RedirectURL)
		if c.navigator != nil {
			c.navigator.Navigate(result.RedirectURL)
		}
		return Redirected, nil
	}

	c.s.criteria = criteria
	if err := c.presenter.show(result, pageNumber); err != nil {
		return Failed, err
	}
	return Rendered, nil
}

// HandleSearchSubmit runs a fresh search.
func (c *Controller) HandleSearchSubmit(ctx context.Context) (Outcome, error) {
	return c.DoSearch(ctx, 0)
}

// HandlePopState restores a page from history. Searches still in flight
// are discarded when they complete.
func (c *Controller) HandlePopState(snap Snapshot) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.next()
	return c.presenter.restore(snap)
}

// Next searches the page after the active one.
func (c *Controller) Next(ctx context.Context) (Outcome, error) {
	return c.cursor.Next(ctx)
}

// Prev searches the page before the active one.
func (c *Controller) Prev(ctx context.Context) (Outcome, error) {
	return c.cursor.Prev(ctx)
}
