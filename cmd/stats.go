package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/panels"
	"github.com/rubiojr/letterpress/pkg/search"
	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	flags := append(filterFlags(),
		&cli.StringFlag{
			Name:  "chart-output",
			Usage: "Write the chart markup to this file",
		},
	)
	return &cli.Command{
		Name:  "stats",
		Usage: "Show word frequency statistics for the matching letters",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return showStats(ctx, c)
		},
	}
}

func showStats(ctx context.Context, c *cli.Command) error {
	a, err := loadApp(c.String("config"))
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.loadPage(ctx, a.cfg.Pages.Stats, dom.ChartRegion, dom.StatsRegion)
	if err != nil {
		return err
	}
	reader, err := applyCriteria(page, c)
	if err != nil {
		return err
	}

	nav := &navigator{}
	outcome, res, err := panels.NewStatsPanel(a.client, page, reader, nav).Show(ctx)
	switch outcome {
	case search.Redirected:
		return a.redirectError(nav)
	case search.Failed:
		return fmt.Errorf("loading stats: %w", err)
	}

	fmt.Println(titleStyle.Render("Statistics for " + formatCriteria(reader.Get())))
	lines := dom.TextBlocks(res.Stats)
	if len(lines) == 0 {
		fmt.Println(noDataStyle.Render("No statistics available"))
	}
	for _, line := range lines {
		fmt.Println(line)
	}

	if path := c.String("chart-output"); path != "" {
		if err := os.WriteFile(path, []byte(res.Chart), 0o644); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		fmt.Println(metaStyle.Render("Chart written to " + path))
	}
	return nil
}
