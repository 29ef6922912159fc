package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// HistoryCommand creates the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List the searches recorded in a history tab",
		Flags: []cli.Flag{
			tabFlag(),
			&cli.BoolFlag{
				Name:  "tabs",
				Usage: "List history tabs instead of entries",
			},
			&cli.StringFlag{
				Name:  "delete",
				Usage: "Delete the history tab with this id",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := loadApp(c.String("config"))
			if err != nil {
				return err
			}
			defer a.Close()

			switch {
			case c.String("delete") != "":
				return deleteTab(a, c.String("delete"))
			case c.Bool("tabs"):
				return listTabs(a)
			default:
				return listEntries(a, c.String("tab"))
			}
		},
	}
}

func listEntries(a *app, tabID string) error {
	tab, err := a.tab(tabID, false)
	if err != nil {
		return err
	}
	entries, pos, err := tab.Entries()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("History of tab " + tab.ID()))
	if len(entries) == 0 {
		fmt.Println(noDataStyle.Render("No entries"))
		return nil
	}
	for _, e := range entries {
		marker := "  "
		if e.Index == pos {
			marker = "→ "
		}
		snap := e.Snapshot
		pages := snap.Result.Pages
		if pages == 0 {
			pages = snap.LastPage
		}
		line := fmt.Sprintf("%s%d. %s", marker, e.Index+1, formatCriteria(snap.Criteria))
		meta := fmt.Sprintf("page %d of %d  %s", snap.Page, pages, e.URL)
		fmt.Printf("%s  %s\n", line, metaStyle.Render(meta))
	}
	return nil
}

func listTabs(a *app) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	tabs, err := store.Tabs()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%d history tabs", len(tabs))))
	for _, t := range tabs {
		fmt.Printf("%s  %d entries  %s\n", urlStyle.Render(t.ID), t.Entries, metaStyle.Render(formatTime(t.UpdatedAt)))
	}
	return nil
}

func deleteTab(a *app, id string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	if err := store.DeleteTab(id); err != nil {
		return err
	}
	fmt.Printf("Deleted tab %s\n", id)
	return nil
}
