package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/letterpress/pkg/panels"
	"github.com/urfave/cli/v3"
)

// ExportCommand creates the export command
func ExportCommand() *cli.Command {
	flags := append(filterFlags(),
		&cli.StringFlag{
			Name:  "output",
			Usage: "File to write the letters to, stdout when empty",
		},
	)
	return &cli.Command{
		Name:  "export",
		Usage: "Download the matching letters as plain text",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return exportLetters(ctx, c)
		},
	}
}

func exportLetters(ctx context.Context, c *cli.Command) error {
	a, err := loadApp(c.String("config"))
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.loadPage(ctx, a.cfg.Pages.Letters)
	if err != nil {
		return err
	}
	reader, err := applyCriteria(page, c)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	path := c.String("output")
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	n, err := panels.NewExporter(a.client, reader).Export(ctx, w)
	if err != nil {
		return fmt.Errorf("exporting letters: %w", err)
	}
	if path != "" {
		fmt.Printf("Exported %s to %s\n", formatBytes(n), path)
	}
	return nil
}
