package search

import "context"

// Trigger starts a search for a page.
type Trigger func(ctx context.Context, pageNumber int) (Outcome, error)

// PageCursor keeps the active page of a session and its indicator in the
// view in step.
type PageCursor struct {
	s       *Session
	view    View
	trigger Trigger
}

// NewPageCursor creates a cursor over the pagination rendered in view.
func NewPageCursor(s *Session, view View, trigger Trigger) *PageCursor {
	return &PageCursor{s: s, view: view, trigger: trigger}
}

// Clear removes the active indicator from both widgets.
func (p *PageCursor) Clear() {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.clear()
}

// Get returns the active page, false when no page is active.
func (p *PageCursor) Get() (int, bool) {
	return p.s.ActivePage()
}

// Set makes page the only active page. Pages below 1 clear the indicator.
func (p *PageCursor) Set(page int) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.set(page)
}

// Next searches for the page after the active one, if there is one.
func (p *PageCursor) Next(ctx context.Context) (Outcome, error) {
	return p.step(ctx, 1)
}

// Prev searches for the page before the active one, if there is one.
func (p *PageCursor) Prev(ctx context.Context) (Outcome, error) {
	return p.step(ctx, -1)
}

func (p *PageCursor) step(ctx context.Context, delta int) (Outcome, error) {
	p.s.mu.Lock()
	current, last := p.s.active, p.s.lastPage
	p.s.mu.Unlock()

	if current < 1 {
		return Skipped, ErrNoActivePage
	}
	target := current + delta
	if target < 1 || target > last {
		logger.Debugf("page %d out of [1, %d], not searching", target, last)
		return Skipped, nil
	}
	return p.trigger(ctx, target)
}

// clear and set must be called with the session lock held.
func (p *PageCursor) clear() {
	p.view.ClearActive()
	p.s.active = 0
}

func (p *PageCursor) set(page int) {
	p.view.ClearActive()
	if page < 1 {
		p.s.active = 0
		return
	}
	p.view.MarkActive(page)
	p.s.active = page
}
