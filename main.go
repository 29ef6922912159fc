package main

import (
	"context"
	"log"
	"os"

	"github.com/rubiojr/letterpress/cmd"
	"github.com/rubiojr/letterpress/pkg/config"
	llog "github.com/rubiojr/letterpress/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "letterpress",
		Usage: "Search and page through the letters archive",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			llog.SetGlobalDebug(c.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.SearchCommand(),
			cmd.NextCommand(),
			cmd.PrevCommand(),
			cmd.BackCommand(),
			cmd.ForwardCommand(),
			cmd.HistoryCommand(),
			cmd.PlacesCommand(),
			cmd.SentimentCommand(),
			cmd.StatsCommand(),
			cmd.WordCloudCommand(),
			cmd.ExportCommand(),
			cmd.MigrateCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		log.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
