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

// WordCloudCommand creates the wordcloud command
func WordCloudCommand() *cli.Command {
	flags := append(filterFlags(),
		&cli.StringFlag{
			Name:  "output",
			Usage: "Image file to write",
			Value: "wordcloud.jpg",
		},
	)
	return &cli.Command{
		Name:  "wordcloud",
		Usage: "Save the word cloud of the matching letters",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return saveWordCloud(ctx, c)
		},
	}
}

func saveWordCloud(ctx context.Context, c *cli.Command) error {
	a, err := loadApp(c.String("config"))
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.loadPage(ctx, a.cfg.Pages.WordCloud, dom.MessageRegion, dom.WordCloudRegion)
	if err != nil {
		return err
	}
	reader, err := applyCriteria(page, c)
	if err != nil {
		return err
	}

	nav := &navigator{}
	outcome, img, err := panels.NewWordCloud(a.client, page, reader, nav).Show(ctx)
	switch outcome {
	case search.Redirected:
		return a.redirectError(nav)
	case search.Failed:
		return fmt.Errorf("loading word cloud: %w", err)
	}

	if img == nil {
		msg, _ := page.HTML(dom.MessageRegion)
		fmt.Println(noDataStyle.Render(msg))
		return nil
	}

	path := c.String("output")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("writing word cloud: %w", err)
	}
	fmt.Printf("Word cloud written to %s (%s)\n", path, formatBytes(int64(len(img))))
	return nil
}
