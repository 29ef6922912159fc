package cmd

import (
	"context"

	"github.com/rubiojr/letterpress/pkg/history"
	"github.com/urfave/cli/v3"
)

// ForwardCommand creates the forward command
func ForwardCommand() *cli.Command {
	return &cli.Command{
		Name:  "forward",
		Usage: "Go forward to the next search in history",
		Flags: []cli.Flag{tabFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			return moveHistory(c, (*history.Tab).Forward)
		},
	}
}
