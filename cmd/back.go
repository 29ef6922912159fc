package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rubiojr/letterpress/pkg/filter"
	"github.com/rubiojr/letterpress/pkg/history"
	"github.com/rubiojr/letterpress/pkg/search"
	"github.com/urfave/cli/v3"
)

// BackCommand creates the back command
func BackCommand() *cli.Command {
	return &cli.Command{
		Name:  "back",
		Usage: "Go back to the previous search in history",
		Flags: []cli.Flag{tabFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			return moveHistory(c, (*history.Tab).Back)
		},
	}
}

// moveHistory moves through the tab and renders the entry it lands on from
// its snapshot, without asking the archive again.
func moveHistory(c *cli.Command, move func(*history.Tab) (history.Entry, error)) error {
	a, err := loadApp(c.String("config"))
	if err != nil {
		return err
	}
	defer a.Close()

	tab, err := a.tab(c.String("tab"), false)
	if err != nil {
		return err
	}
	entry, err := move(tab)
	if errors.Is(err, history.ErrNoEntry) {
		fmt.Println(noDataStyle.Render("No history entry in that direction"))
		return nil
	}
	if err != nil {
		return err
	}

	page, err := blankResultsPage()
	if err != nil {
		return err
	}
	criteria := filter.NewReader(filter.FormFromCriteria(entry.Snapshot.Criteria))
	ctrl := search.NewController(a.client, page, criteria, &navigator{}, nil)
	if err := ctrl.HandlePopState(entry.Snapshot); err != nil {
		return fmt.Errorf("restoring %s: %w", entry.URL, err)
	}

	fmt.Println(titleStyle.Render(formatCriteria(entry.Snapshot.Criteria)))
	return printResults(page, ctrl.Session())
}
