package cmd

import (
	"context"

	"github.com/rubiojr/letterpress/pkg/search"
	"github.com/urfave/cli/v3"
)

// PrevCommand creates the prev command
func PrevCommand() *cli.Command {
	return &cli.Command{
		Name:  "prev",
		Usage: "Show the previous page of the current search",
		Flags: []cli.Flag{tabFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			return stepPage(ctx, c, (*search.Controller).Prev)
		},
	}
}
