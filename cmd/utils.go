package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rubiojr/letterpress/pkg/client"
	"github.com/rubiojr/letterpress/pkg/config"
	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/filter"
	"github.com/rubiojr/letterpress/pkg/history"
	"github.com/rubiojr/letterpress/pkg/log"
	"github.com/rubiojr/letterpress/pkg/search"
	"github.com/urfave/cli/v3"
)

var logger = log.ForService("cmd")

// exitRedirect is the exit code used when the archive asks for a login.
const exitRedirect = 2

// letterRegions are the regions the search results are rendered into.
var letterRegions = []string{dom.LettersRegion, dom.PaginationTopRegion, dom.PaginationBottomRegion}

const blankPage = `<html><head></head><body></body></html>`

// app bundles what every archive command needs.
type app struct {
	cfg    *config.Config
	client *client.Client
	store  *history.Store
}

// loadApp loads the configuration and builds the archive client. The
// history store is opened lazily by openStore.
func loadApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	c, err := client.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return &app{cfg: cfg, client: c}, nil
}

func (a *app) openStore() (*history.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := history.Open(a.cfg.HistoryDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		fmt.Printf("Warning: failed to close history: %v\n", err)
	}
}

// loadPage fetches an archive page, which also refreshes the CSRF token,
// and makes sure the regions the command renders into exist.
func (a *app) loadPage(ctx context.Context, path string, regions ...string) (*dom.Page, error) {
	page, err := a.client.FetchPage(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	page.EnsureRegions(regions...)
	return page, nil
}

// tab returns the tab named id, the most recent one when id is empty, or a
// fresh one when create is set and there is none to reuse.
func (a *app) tab(id string, create bool) (*history.Tab, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if id != "" {
		return store.Tab(id)
	}
	tab, err := store.LatestTab()
	if errors.Is(err, history.ErrNoTab) && create {
		return store.NewTab()
	}
	if errors.Is(err, history.ErrNoTab) {
		return nil, fmt.Errorf("no search history yet, run 'letterpress search' first")
	}
	return tab, err
}

func blankResultsPage() (*dom.Page, error) {
	page, err := dom.ParseString(blankPage)
	if err != nil {
		return nil, err
	}
	page.EnsureRegions(letterRegions...)
	return page, nil
}

// Filter flags

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "text",
			Usage: "Text to search for",
		},
		&cli.StringSliceFlag{
			Name:  "source",
			Usage: "Source to include, by value or label (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "writer",
			Usage: "Writer to include, by value or label (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "sentiment",
			Usage: "Sentiment to include, by value or label (repeatable)",
		},
		&cli.StringFlag{
			Name:  "start-date",
			Usage: "Earliest letter date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "end-date",
			Usage: "Latest letter date (YYYY-MM-DD)",
		},
		&cli.StringSliceFlag{
			Name:  "word",
			Usage: "Extra word to count in stats (up to 2)",
		},
		&cli.StringFlag{
			Name:  "sort-by",
			Usage: "Sort order option",
		},
		&cli.StringFlag{
			Name:  "filters",
			Usage: "TOML file with the filter criteria, flags override it",
		},
	}
}

// criteriaFromFlags reads the filter file, if any, and lets the flags that
// were set override it.
func criteriaFromFlags(c *cli.Command) (filter.Criteria, error) {
	var crit filter.Criteria
	if path := c.String("filters"); path != "" {
		loaded, err := filter.LoadFile(path)
		if err != nil {
			return crit, err
		}
		crit = loaded
	}

	if c.IsSet("text") {
		crit.SearchText = c.String("text")
	}
	if c.IsSet("source") {
		crit.Sources = c.StringSlice("source")
	}
	if c.IsSet("writer") {
		crit.Writers = c.StringSlice("writer")
	}
	if c.IsSet("sentiment") {
		crit.Sentiments = c.StringSlice("sentiment")
	}
	if c.IsSet("start-date") {
		crit.StartDate = c.String("start-date")
	}
	if c.IsSet("end-date") {
		crit.EndDate = c.String("end-date")
	}
	if c.IsSet("word") {
		crit.ExtraWords = c.StringSlice("word")
	}
	if c.IsSet("sort-by") {
		crit.SortBy = c.String("sort-by")
	}

	if len(crit.ExtraWords) > 2 {
		return crit, fmt.Errorf("at most 2 words allowed, got %d", len(crit.ExtraWords))
	}
	return crit, nil
}

// applyCriteria fills the page form with the filters given on the command
// line and returns a reader over the filled form.
func applyCriteria(page *dom.Page, c *cli.Command) (*filter.Reader, error) {
	crit, err := criteriaFromFlags(c)
	if err != nil {
		return nil, err
	}
	if err := page.Fill(crit); err != nil {
		return nil, fmt.Errorf("filling filter form: %w", err)
	}
	return filter.NewReader(page), nil
}

// Navigation

// navigator remembers where the archive wanted to send the user.
type navigator struct {
	url string
}

func (n *navigator) Navigate(url string) {
	logger.Debugf("redirect to %s", url)
	n.url = url
}

// redirectError turns a recorded redirect into a non-zero exit.
func (a *app) redirectError(nav *navigator) error {
	return cli.Exit(fmt.Sprintf("The archive asked to continue at %s (log in and set cookies in the config)", a.client.ResolveURL(nav.url)), exitRedirect)
}

// pushFirst records the first page a search shows as a new history entry
// and later pages of the same search in place of it.
type pushFirst struct {
	tab    pusher
	pushed bool
}

// pusher is a history that can add entries: a stored Tab or an in-memory
// Stack.
type pusher interface {
	search.History
	Push(snap search.Snapshot, url string) error
}

func (p *pushFirst) Replace(snap search.Snapshot, url string) error {
	if p.pushed {
		return p.tab.Replace(snap, url)
	}
	if err := p.tab.Push(snap, url); err != nil {
		return err
	}
	p.pushed = true
	return nil
}

// reset makes the next search start a new entry.
func (p *pushFirst) reset() {
	p.pushed = false
}

// finish maps a search outcome to the command result and prints rendered
// results.
func (a *app) finish(outcome search.Outcome, err error, nav *navigator, page *dom.Page, s *search.Session) error {
	switch outcome {
	case search.Redirected:
		return a.redirectError(nav)
	case search.Failed:
		return fmt.Errorf("searching: %w", err)
	case search.Discarded:
		logger.Debugf("response discarded, a newer search is in flight")
		return nil
	case search.Skipped:
		msg, err := skipMessage(err)
		if err != nil {
			return err
		}
		fmt.Println(noDataStyle.Render(msg))
		return nil
	}
	return printResults(page, s)
}

// skipMessage explains why a page step did not search.
func skipMessage(err error) (string, error) {
	switch {
	case errors.Is(err, search.ErrNoActivePage):
		return "No page is active in the current search", nil
	case err != nil:
		return "", err
	}
	return "No more pages in that direction", nil
}
