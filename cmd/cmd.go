// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serverFlags are shared by every command that starts a transfer server.
func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Preferred port (0 picks any free port)",
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "Extra consecutive ports to try when the port is in use",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Address to listen on",
		},
		&cli.StringFlag{
			Name:    "interface",
			Aliases: []string{"i"},
			Usage:   "Network interface used for the shareable address",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Display name shown on the index page",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug logging, including every request",
		},
		&cli.FloatFlag{
			Name:  "rate-limit",
			Usage: "Requests per second per client (0 disables)",
		},
		&cli.BoolFlag{
			Name:  "history",
			Usage: "Record uploads and sessions in the history database",
		},
		&cli.StringFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Directory whose new files are uploaded automatically",
		},
	}
}

// serveCommand starts the transfer server in the foreground.
func serveCommand(r *Runner) *cli.Command {
	flags := append(serverFlags(),
		&cli.StringSliceFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "File to share (repeatable, positional arguments work too)",
		},
		&cli.StringFlag{
			Name:    "text",
			Aliases: []string{"t"},
			Usage:   "Text to share as a .txt file",
		},
		&cli.BoolFlag{
			Name:  "open",
			Usage: "Open the address in the default browser",
		},
		&cli.BoolFlag{
			Name:  "copy",
			Usage: "Copy the address to the clipboard",
		},
		&cli.BoolFlag{
			Name:  "no-qr",
			Usage: "Don't print a QR code of the address",
		},
	)

	return &cli.Command{
		Name:      "serve",
		Aliases:   []string{"s"},
		Usage:     "Start the transfer server and share files until interrupted",
		ArgsUsage: "[file...]",
		Flags:     flags,
		Action:    r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive dashboard",
		Flags: append(serverFlags(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the dashboard owns the terminal",
				Value: "./tmp/droplet-tui.log",
			},
		),
		Action: r.TUI,
	}
}

// addrCommand prints the shareable address.
func addrCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "addr",
		Usage: "Show the Wi-Fi address other devices would use",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to include in the address",
			},
			&cli.StringFlag{
				Name:    "interface",
				Aliases: []string{"i"},
				Usage:   "Network interface to resolve instead of the platform default",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "List every interface with an IPv4 address",
			},
			&cli.BoolFlag{
				Name:  "qr",
				Usage: "Print a QR code of the address",
			},
		},
		Action: r.Addr,
	}
}

// historyCommand handles upload history operations.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded uploads and sessions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded uploads, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of uploads to show",
						Value:   20,
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "Only show uploads from this session ID",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Only show uploads whose name contains this text",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON instead of a table",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "export",
				Usage: "Export upload history to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, json or text",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: droplet_history.{format})",
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "Only export uploads from this session ID",
					},
				},
				Action: r.HistoryExport,
			},
			{
				Name:  "sessions",
				Usage: "List server sessions",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of sessions to show",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON instead of a table",
					},
				},
				Action: r.HistorySessions,
			},
			{
				Name:      "delete",
				Usage:     "Remove an upload from the history",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a commented config.toml with default values",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}
