package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/letterpress/pkg/config"
	"github.com/urfave/cli/v3"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Address of the letters archive",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(c.String("config"), c.String("base-url"), c.Bool("force"))
		},
	}
}

// initConfig initializes the configuration file
func initConfig(configPath, baseURL string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
	}

	cfg, err := config.GetDefaultConfig()
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.SaveConfig(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	} else if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration initialized at %s\n", configPath)
	return nil
}
