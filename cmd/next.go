package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/letterpress/pkg/filter"
	"github.com/rubiojr/letterpress/pkg/search"
	"github.com/urfave/cli/v3"
)

func tabFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "tab",
		Usage: "History tab id, defaults to the most recent one",
	}
}

// NextCommand creates the next command
func NextCommand() *cli.Command {
	return &cli.Command{
		Name:  "next",
		Usage: "Show the next page of the current search",
		Flags: []cli.Flag{tabFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			return stepPage(ctx, c, (*search.Controller).Next)
		},
	}
}

// stepPage restores the current history entry into a freshly loaded
// letters page and moves its cursor one step.
func stepPage(ctx context.Context, c *cli.Command, step func(*search.Controller, context.Context) (search.Outcome, error)) error {
	a, err := loadApp(c.String("config"))
	if err != nil {
		return err
	}
	defer a.Close()

	tab, err := a.tab(c.String("tab"), false)
	if err != nil {
		return err
	}
	entry, err := tab.Current()
	if err != nil {
		return fmt.Errorf("reading current history entry: %w", err)
	}

	page, err := a.loadPage(ctx, a.cfg.Pages.Letters, letterRegions...)
	if err != nil {
		return err
	}
	if err := page.Fill(entry.Snapshot.Criteria); err != nil {
		return fmt.Errorf("filling filter form: %w", err)
	}

	nav := &navigator{}
	ctrl := search.NewController(a.client, page, filter.NewReader(page), nav, tab)
	if err := ctrl.HandlePopState(entry.Snapshot); err != nil {
		return fmt.Errorf("restoring %s: %w", entry.URL, err)
	}

	outcome, err := step(ctrl, ctx)
	return a.finish(outcome, err, nav, page, ctrl.Session())
}
