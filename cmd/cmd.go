// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// sharesCommand handles inbox listing and mutations
func sharesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "shares",
		Aliases: []string{"inbox"},
		Usage:   "Browse and act on songs friends shared with you",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List one page of a bucket, grouped by track",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:    "bucket",
						Aliases: []string{"b"},
						Usage:   "Bucket to list (unreacted, queued, archived)",
						Value:   "unreacted",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Recipient user ID (defaults to shares.user_id in config)",
					},
					&cli.StringFlag{
						Name:  "cursor",
						Usage: "RFC3339 timestamp; fetch the page older than it",
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the cache and re-fetch the first page",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SharesList,
			},
			{
				Name:  "react",
				Usage: "Like or dislike a shared song (all rows in its group)",
				Arguments: []cli.Argument{
					&cli.StringArgs{Name: "ids", Min: 1, Max: -1},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Recipient user ID (defaults to shares.user_id in config)",
					},
					&cli.BoolFlag{
						Name:  "like",
						Usage: "React with a like",
					},
					&cli.BoolFlag{
						Name:  "dislike",
						Usage: "React with a dislike",
					},
				},
				Action: r.SharesReact,
			},
			{
				Name:  "queue",
				Usage: "Move a shared song into the listen-later queue",
				Arguments: []cli.Argument{
					&cli.StringArgs{Name: "ids", Min: 1, Max: -1},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Recipient user ID (defaults to shares.user_id in config)",
					},
				},
				Action: r.SharesQueue,
			},
			{
				Name:  "seed",
				Usage: "Populate the local database with demo shares",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Recipient user ID (defaults to shares.user_id in config)",
					},
				},
				Action: r.SharesSeed,
			},
		},
	}
}

// resolveCommand handles cross-provider track resolution
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Map a track link onto another provider",
		Commands: []*cli.Command{
			{
				Name:  "map",
				Usage: "Resolve a share link and print the match without opening it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:     "target",
						Aliases:  []string{"t"},
						Usage:    "Target provider (spotify or applemusic)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ResolveMap,
			},
			{
				Name:  "open",
				Usage: "Resolve a share link and open it in your music app",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:     "target",
						Aliases:  []string{"t"},
						Usage:    "Target provider (spotify or applemusic)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "first",
						Usage: "Open the top fuzzy candidate without the picker",
					},
				},
				Action: r.ResolveOpen,
			},
		},
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the new config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
