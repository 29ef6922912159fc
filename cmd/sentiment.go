package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/filter"
	"github.com/rubiojr/letterpress/pkg/panels"
	"github.com/rubiojr/letterpress/pkg/search"
	"github.com/urfave/cli/v3"
)

// SentimentCommand creates the sentiment command
func SentimentCommand() *cli.Command {
	return &cli.Command{
		Name:  "sentiment",
		Usage: "Highlight the sentiments of a text, read from --text or stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "text",
				Usage: "Text to analyze",
			},
			&cli.StringSliceFlag{
				Name:  "sentiment",
				Usage: "Sentiment to highlight, by value or label (repeatable)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return analyzeSentiment(ctx, c)
		},
	}
}

func analyzeSentiment(ctx context.Context, c *cli.Command) error {
	text := c.String("text")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading text from stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return fmt.Errorf("no text to analyze")
	}

	a, err := loadApp(c.String("config"))
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.loadPage(ctx, a.cfg.Pages.Sentiment, dom.SentimentRegion)
	if err != nil {
		return err
	}
	sentiments, err := checkSentiments(page, c.StringSlice("sentiment"))
	if err != nil {
		return err
	}

	nav := &navigator{}
	outcome, markup, err := panels.NewSentimentAnalyzer(a.client, page, nav).Analyze(ctx, text, sentiments)
	switch outcome {
	case search.Redirected:
		return a.redirectError(nav)
	case search.Failed:
		return fmt.Errorf("analyzing sentiment: %w", err)
	}

	fmt.Println(titleStyle.Render("Sentiment"))
	for _, line := range dom.TextBlocks(markup) {
		fmt.Println(blockStyle.Render(line))
	}
	return nil
}

// checkSentiments ticks the wanted sentiments on the page form, so labels
// resolve to values, and returns the checked values. Pages without the
// sentiment group pass the arguments through.
func checkSentiments(page *dom.Page, wanted []string) ([]string, error) {
	if len(wanted) == 0 {
		return page.Checked(filter.SentimentsID), nil
	}
	page.ClearGroup(filter.SentimentsID)
	for _, w := range wanted {
		err := page.Check(filter.SentimentsID, w)
		if errors.Is(err, dom.ErrNoControl) {
			return wanted, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return page.Checked(filter.SentimentsID), nil
}
