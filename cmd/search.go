package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/letterpress/pkg/history"
	"github.com/rubiojr/letterpress/pkg/search"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	flags := append(filterFlags(),
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page to show, 0 starts a fresh search",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:  "new-tab",
			Usage: "Record the search in a new history tab",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Keep the search history in memory only",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Search again every time the --filters file changes",
		},
	)
	return &cli.Command{
		Name:  "search",
		Usage: "Search the letters",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return searchLetters(ctx, c)
		},
	}
}

func searchLetters(ctx context.Context, c *cli.Command) error {
	if c.Bool("watch") && c.String("filters") == "" {
		return fmt.Errorf("--watch needs a --filters file")
	}

	a, err := loadApp(c.String("config"))
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.loadPage(ctx, a.cfg.Pages.Letters, letterRegions...)
	if err != nil {
		return err
	}

	hist, tabID, err := searchHistory(a, c)
	if err != nil {
		return err
	}
	nav := &navigator{}
	reader, err := applyCriteria(page, c)
	if err != nil {
		return err
	}
	ctrl := search.NewController(a.client, page, reader, nav, hist)

	run := func() error {
		hist.reset()
		outcome, err := ctrl.DoSearch(ctx, c.Int("page"))
		logger.Debugf("search in tab %s: %s", tabID, outcome)
		return a.finish(outcome, err, nav, page, ctrl.Session())
	}

	if err := run(); err != nil {
		return err
	}
	if !c.Bool("watch") {
		return nil
	}

	return watchFilters(ctx, c.String("filters"), func() error {
		if _, err := applyCriteria(page, c); err != nil {
			return err
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("Filters changed, searching again (%s)", time.Now().Format("15:04:05"))))
		return run()
	})
}

// searchHistory picks where the search is recorded: a stored tab, or an
// in-memory stack with --no-history.
func searchHistory(a *app, c *cli.Command) (*pushFirst, string, error) {
	if c.Bool("no-history") {
		return &pushFirst{tab: history.NewStack()}, "memory", nil
	}

	var tabID string
	if c.Bool("new-tab") {
		store, err := a.openStore()
		if err != nil {
			return nil, "", err
		}
		tab, err := store.NewTab()
		if err != nil {
			return nil, "", err
		}
		tabID = tab.ID()
	}
	tab, err := a.tab(tabID, true)
	if err != nil {
		return nil, "", err
	}
	return &pushFirst{tab: tab}, tab.ID(), nil
}

// watchFilters calls onChange every time the filter file is written or
// replaced, until interrupted.
func watchFilters(ctx context.Context, path string, onChange func() error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filter file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("failed to close filter file watcher: %v", err)
		}
	}()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching filter file %s: %w", path, err)
	}
	logger.Infof("Watching filter file for changes: %s", path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sigCh:
			fmt.Println("\nStopped watching")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save through a rename.
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) {
				continue
			}
			logger.Debugf("filter file changed: %s (event: %s)", event.Name, event.Op.String())

			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				time.Sleep(200 * time.Millisecond)
				if _, err := os.Stat(path); os.IsNotExist(err) {
					logger.Warnf("filter file was removed and not replaced, skipping search")
					continue
				}
				if err := watcher.Add(path); err != nil {
					logger.Warnf("failed to re-add filter file to watcher: %v", err)
				}
			}

			if err := onChange(); err != nil {
				logger.Errorf("search failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("filter file watcher error: %v", err)
		}
	}
}
