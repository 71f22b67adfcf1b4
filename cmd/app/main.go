// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/thorsten-l/l9g-accountinfo/cmd/app/commands"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "accountinfo",
		Usage:   "Signature pad device trust and capture rendezvous service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-master-key",
				Usage: "Create the master key file ahead of the first server start",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateMasterKey(ctx)
				},
			},
			{
				Name:  "create-pad",
				Usage: "Register a new signature pad",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable pad name (e.g., reception-desk-1)",
					},
					&cli.BoolFlag{
						Name:    "issue-key",
						Aliases: []string{"k"},
						Usage:   "Also issue an RSA key pair and print the private key",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreatePad(
						ctx,
						cmd.String("name"),
						cmd.Bool("issue-key"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "delete-pad",
				Usage: "Delete a signature pad and every record stored under it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "uuid",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "Pad UUID",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDeletePad(ctx, cmd.String("uuid"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
