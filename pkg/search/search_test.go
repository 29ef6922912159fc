package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rubiojr/letterpress/pkg/client"
	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/filter"
)

const pageHTML = `<html><body>
<input id="search_text" value="furlough">
<div id="sources"><input type="checkbox" value="1" checked><input type="checkbox" value="2"></div>
<div id="pagination-top"></div>
<div id="letters"><p>initial</p></div>
<div id="pagination-bottom"></div>
</body></html>`

func pagination(pages int) string {
	var b strings.Builder
	b.WriteString(`<ul id="pages" class="pagination">`)
	for i := 1; i <= pages; i++ {
		fmt.Fprintf(&b, `<li name="page%d"><a>%d</a></li>`, i, i)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

type searchCall struct {
	criteria filter.Criteria
	page     int
}

type fakeSearcher struct {
	mu    sync.Mutex
	calls []searchCall
	fn    func(page int) (*client.SearchResult, error)
}

func (f *fakeSearcher) Search(_ context.Context, c filter.Criteria, page int) (*client.SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{c, page})
	f.mu.Unlock()
	return f.fn(page)
}

type replaced struct {
	snap Snapshot
	url  string
}

type fakeHistory struct {
	entries []replaced
}

func (h *fakeHistory) Replace(snap Snapshot, url string) error {
	h.entries = append(h.entries, replaced{snap, url})
	return nil
}

func (h *fakeHistory) last(t *testing.T) replaced {
	t.Helper()
	if len(h.entries) == 0 {
		t.Fatal("history was never replaced")
	}
	return h.entries[len(h.entries)-1]
}

type fixture struct {
	view     *dom.Page
	searcher *fakeSearcher
	history  *fakeHistory
	navs     []string
	ctrl     *Controller
}

func newFixture(t *testing.T, fn func(page int) (*client.SearchResult, error)) *fixture {
	t.Helper()
	view, err := dom.ParseString(pageHTML)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	f := &fixture{
		view:     view,
		searcher: &fakeSearcher{fn: fn},
		history:  &fakeHistory{},
	}
	nav := NavigatorFunc(func(url string) { f.navs = append(f.navs, url) })
	f.ctrl = NewController(f.searcher, view, filter.NewReader(view), nav, f.history)
	return f
}

func (f *fixture) region(t *testing.T, id string) string {
	t.Helper()
	s, err := f.view.HTML(id)
	if err != nil {
		t.Fatalf("HTML(%s): %v", id, err)
	}
	return s
}

// pagedServer answers page 0 with pagination for pages pages and every
// other page with letters only.
func pagedServer(pages int) func(int) (*client.SearchResult, error) {
	return func(page int) (*client.SearchResult, error) {
		if page == 0 {
			return &client.SearchResult{
				Letters:    "<p>page 1</p>",
				Pagination: pagination(pages),
				Pages:      pages,
			}, nil
		}
		return &client.SearchResult{Letters: fmt.Sprintf("<p>page %d</p>", page)}, nil
	}
}

func TestFreshSearch(t *testing.T) {
	f := newFixture(t, pagedServer(5))

	outcome, err := f.ctrl.HandleSearchSubmit(context.Background())
	if err != nil || outcome != Rendered {
		t.Fatalf("HandleSearchSubmit = %v, %v", outcome, err)
	}

	if got := f.region(t, dom.LettersRegion); got != "<p>page 1</p>" {
		t.Errorf("letters = %q", got)
	}
	top, bottom := f.region(t, dom.PaginationTopRegion), f.region(t, dom.PaginationBottomRegion)
	if top != bottom || !strings.Contains(top, `name="page5"`) {
		t.Errorf("pagination not installed in both widgets:\n%s\n%s", top, bottom)
	}
	if got := f.ctrl.Session().LastPage(); got != 5 {
		t.Errorf("last page = %d, want 5", got)
	}
	if got, ok := f.ctrl.Cursor().Get(); !ok || got != 1 {
		t.Errorf("active = %d, %v; want 1", got, ok)
	}
	if got, ok := f.view.ActivePage(); !ok || got != 1 {
		t.Errorf("view active = %d, %v; want 1", got, ok)
	}

	if len(f.searcher.calls) != 1 || f.searcher.calls[0].page != 0 {
		t.Fatalf("calls = %+v", f.searcher.calls)
	}
	if c := f.searcher.calls[0].criteria; c.SearchText != "furlough" || len(c.Sources) != 1 {
		t.Errorf("criteria = %+v", c)
	}

	entry := f.history.last(t)
	if entry.url != "?page=0" {
		t.Errorf("history url = %q", entry.url)
	}
	if entry.snap.Pagination != top || entry.snap.LastPage != 5 || entry.snap.Page != 1 {
		t.Errorf("snapshot = %+v", entry.snap)
	}
	if entry.snap.Criteria.SearchText != "furlough" {
		t.Errorf("snapshot criteria = %+v", entry.snap.Criteria)
	}
}

func TestPageNavigationSearch(t *testing.T) {
	f := newFixture(t, pagedServer(5))
	ctx := context.Background()

	if _, err := f.ctrl.HandleSearchSubmit(ctx); err != nil {
		t.Fatal(err)
	}
	outcome, err := f.ctrl.DoSearch(ctx, 3)
	if err != nil || outcome != Rendered {
		t.Fatalf("DoSearch(3) = %v, %v", outcome, err)
	}

	if got := f.region(t, dom.LettersRegion); got != "<p>page 3</p>" {
		t.Errorf("letters = %q", got)
	}
	if got := f.ctrl.Session().LastPage(); got != 5 {
		t.Errorf("last page = %d, want 5 (unchanged)", got)
	}
	if got, ok := f.view.ActivePage(); !ok || got != 3 {
		t.Errorf("view active = %d, %v; want 3", got, ok)
	}
	top := f.region(t, dom.PaginationTopRegion)
	if strings.Count(top, "<li") != 5 || strings.Count(top, "active") != 1 {
		t.Errorf("pagination should be kept with a single active item: %s", top)
	}
	if top != f.region(t, dom.PaginationBottomRegion) {
		t.Error("widgets out of sync")
	}
	if entry := f.history.last(t); entry.url != "?page=3" || entry.snap.Page != 3 {
		t.Errorf("history = %q %+v", entry.url, entry.snap)
	}
	if len(f.history.entries) != 2 {
		t.Errorf("history replaced %d times, want 2", len(f.history.entries))
	}
}

func TestRedirectSkipsRendering(t *testing.T) {
	f := newFixture(t, func(int) (*client.SearchResult, error) {
		return &client.SearchResult{Letters: "<p>ignored</p>", RedirectURL: "/accounts/login/"}, nil
	})

	outcome, err := f.ctrl.HandleSearchSubmit(context.Background())
	if err != nil || outcome != Redirected {
		t.Fatalf("outcome = %v, %v", outcome, err)
	}
	if len(f.navs) != 1 || f.navs[0] != "/accounts/login/" {
		t.Fatalf("navigations = %v", f.navs)
	}
	if got := f.region(t, dom.LettersRegion); got != "<p>initial</p>" {
		t.Errorf("letters rendered on redirect: %q", got)
	}
	if len(f.history.entries) != 0 {
		t.Error("history replaced on redirect")
	}
}

func TestTransportFailureKeepsView(t *testing.T) {
	fail := false
	boom := errors.New("connection refused")
	server := pagedServer(4)
	f := newFixture(t, func(page int) (*client.SearchResult, error) {
		if fail {
			return nil, boom
		}
		return server(page)
	})
	ctx := context.Background()

	if _, err := f.ctrl.HandleSearchSubmit(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ctrl.DoSearch(ctx, 2); err != nil {
		t.Fatal(err)
	}

	fail = true
	outcome, err := f.ctrl.Next(ctx)
	if !errors.Is(err, boom) || outcome != Failed {
		t.Fatalf("Next = %v, %v", outcome, err)
	}
	if got := f.region(t, dom.LettersRegion); got != "<p>page 2</p>" {
		t.Errorf("letters = %q", got)
	}
	if got, ok := f.view.ActivePage(); !ok || got != 2 {
		t.Errorf("active = %d, %v; want previous page 2", got, ok)
	}
	if len(f.history.entries) != 2 {
		t.Errorf("history replaced on failure")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	f := newFixture(t, func(page int) (*client.SearchResult, error) {
		if page == 0 {
			close(started)
			<-release
			return &client.SearchResult{Letters: "<p>stale</p>", Pagination: pagination(9), Pages: 9}, nil
		}
		return &client.SearchResult{Letters: "<p>fresh</p>", Pagination: pagination(2), Pages: 2}, nil
	})
	ctx := context.Background()

	done := make(chan Outcome)
	go func() {
		outcome, _ := f.ctrl.DoSearch(ctx, 0)
		done <- outcome
	}()
	<-started

	if outcome, err := f.ctrl.DoSearch(ctx, 1); err != nil || outcome != Rendered {
		t.Fatalf("second search = %v, %v", outcome, err)
	}
	close(release)

	if outcome := <-done; outcome != Discarded {
		t.Fatalf("first search outcome = %v, want discarded", outcome)
	}
	if got := f.region(t, dom.LettersRegion); got != "<p>fresh</p>" {
		t.Errorf("letters = %q, stale response overwrote the view", got)
	}
	if got := f.ctrl.Session().LastPage(); got != 2 {
		t.Errorf("last page = %d, want 2", got)
	}
	if f.ctrl.Session().Seq() != 2 {
		t.Errorf("seq = %d", f.ctrl.Session().Seq())
	}
}

func TestCursorSteps(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		last     int
		next     bool
		wantPage int // 0 means no search
	}{
		{"next beyond last", 2, 1, true, 0},
		{"next inside", 2, 3, true, 3},
		{"next at last", 3, 3, true, 0},
		{"prev at first", 1, 3, false, 0},
		{"prev inside", 2, 3, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := dom.ParseString(pageHTML)
			if err != nil {
				t.Fatal(err)
			}
			view.SetHTML(dom.PaginationTopRegion, pagination(tt.current))

			var got []int
			s := &Session{lastPage: tt.last}
			cursor := NewPageCursor(s, view, func(_ context.Context, page int) (Outcome, error) {
				got = append(got, page)
				return Rendered, nil
			})
			cursor.Set(tt.current)

			step := cursor.Prev
			if tt.next {
				step = cursor.Next
			}
			outcome, err := step(context.Background())
			if err != nil {
				t.Fatalf("step: %v", err)
			}

			if tt.wantPage == 0 {
				if len(got) != 0 || outcome != Skipped {
					t.Fatalf("expected no search, got %v (%v)", got, outcome)
				}
				return
			}
			if len(got) != 1 || got[0] != tt.wantPage {
				t.Fatalf("searched %v, want [%d]", got, tt.wantPage)
			}
		})
	}
}

func TestCursorWithoutActivePage(t *testing.T) {
	view, _ := dom.ParseString(pageHTML)
	cursor := NewPageCursor(&Session{lastPage: 3}, view, func(context.Context, int) (Outcome, error) {
		t.Fatal("unexpected search")
		return Skipped, nil
	})

	if _, ok := cursor.Get(); ok {
		t.Fatal("expected no active page")
	}
	if _, err := cursor.Next(context.Background()); !errors.Is(err, ErrNoActivePage) {
		t.Fatalf("Next error = %v", err)
	}
}

func TestCursorSetReplacesIndicator(t *testing.T) {
	view, _ := dom.ParseString(pageHTML)
	for _, r := range []string{dom.PaginationTopRegion, dom.PaginationBottomRegion} {
		view.SetHTML(r, pagination(4))
	}
	cursor := NewPageCursor(&Session{lastPage: 4}, view, nil)

	cursor.Set(2)
	cursor.Set(4)

	if got, ok := cursor.Get(); !ok || got != 4 {
		t.Fatalf("Get = %d, %v", got, ok)
	}
	top, _ := view.HTML(dom.PaginationTopRegion)
	if strings.Count(top, "active") != 1 {
		t.Fatalf("expected one active item, got %s", top)
	}

	cursor.Clear()
	cursor.Clear()
	if _, ok := cursor.Get(); ok {
		t.Fatal("Clear left an active page")
	}
	if _, ok := view.ActivePage(); ok {
		t.Fatal("Clear left an indicator in the view")
	}
}

func TestHandlePopState(t *testing.T) {
	f := newFixture(t, pagedServer(5))

	view, _ := dom.ParseString(pageHTML)
	view.SetHTML(dom.PaginationTopRegion, pagination(5))
	view.MarkActive(4)
	snapPagination, _ := view.HTML(dom.PaginationTopRegion)

	snap := Snapshot{
		Result:     client.SearchResult{Letters: "<p>restored</p>", Pages: 5},
		Pagination: snapPagination,
		Criteria:   filter.Criteria{SearchText: "camp"},
	}
	if err := f.ctrl.HandlePopState(snap); err != nil {
		t.Fatalf("HandlePopState: %v", err)
	}

	if got := f.region(t, dom.LettersRegion); got != "<p>restored</p>" {
		t.Errorf("letters = %q", got)
	}
	if f.region(t, dom.PaginationTopRegion) != snapPagination || f.region(t, dom.PaginationBottomRegion) != snapPagination {
		t.Error("pagination not restored into both widgets")
	}
	if got := f.ctrl.Session().LastPage(); got != 5 {
		t.Errorf("last page = %d, want 5", got)
	}
	if got, ok := f.ctrl.Cursor().Get(); !ok || got != 4 {
		t.Errorf("active = %d, %v; want 4 from restored markup", got, ok)
	}
	if f.ctrl.Session().Criteria().SearchText != "camp" {
		t.Error("criteria not restored")
	}
	if len(f.history.entries) != 0 {
		t.Error("restore must not write history")
	}
}

func TestRestorePageNavigationSnapshot(t *testing.T) {
	f := newFixture(t, pagedServer(5))

	err := f.ctrl.HandlePopState(Snapshot{
		Result:     client.SearchResult{Letters: "<p>3</p>"},
		Pagination: pagination(6),
		LastPage:   6,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := f.ctrl.Session().LastPage(); got != 6 {
		t.Fatalf("last page = %d, want 6 from snapshot", got)
	}
}

func TestNegativePage(t *testing.T) {
	f := newFixture(t, pagedServer(1))
	if _, err := f.ctrl.DoSearch(context.Background(), -1); err == nil {
		t.Fatal("expected error for negative page")
	}
	if len(f.searcher.calls) != 0 {
		t.Fatal("searched with a negative page")
	}
}

func TestOutcomeString(t *testing.T) {
	if Discarded.String() != "discarded" || Outcome(42).String() != "outcome(42)" {
		t.Fatal("unexpected outcome names")
	}
}
