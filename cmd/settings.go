package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"workplate/internal/config"
)

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change the working configuration.",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the working configuration.",
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					cfg, err := config.LoadWork(c.Context, a.settings)
					if err != nil {
						return err
					}
					values := config.Values(cfg)
					for _, key := range config.WorkKeys {
						fmt.Printf("%-18s %s\n", key, values[key])
					}
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "Change one key, e.g. 'settings set work_end 18:00'. An empty lunch_start disables lunch.",
				ArgsUsage: "KEY VALUE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("expected a key and a value")
					}
					a, err := newApp()
					if err != nil {
						return err
					}
					key, value := c.Args().Get(0), c.Args().Get(1)
					if err := config.SetWork(c.Context, a.settings, key, value); err != nil {
						return err
					}
					a.logger.Info("Updated setting", "key", key, "value", value)
					return nil
				},
			},
		},
	}
}
