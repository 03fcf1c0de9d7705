package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/threadmap/internal"
	"github.com/starford/threadmap/internal/generate"
	pkgconfig "github.com/starford/threadmap/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	found, err := pkgconfig.LoadOptional(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found {
		slog.Debug("config file not found, using defaults", slog.String("path", configPath))
	}
	if vault := cmd.String("vault"); vault != "" {
		cfg.Vault.Path = vault
	}
	return cfg, nil
}

func options(cmd *cli.Command, cfg *internal.Config, targets ...string) []internal.Option {
	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithDryRun(cmd.Bool("dry-run")),
		internal.WithTargets(targets...),
	}
}

// generateAction runs the batch for the given targets; none means all.
func generateAction(targets ...string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := internal.Run(ctx, options(cmd, cfg, targets...)...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func watchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Watch(ctx, options(cmd, cfg)...); err != nil {
		return fmt.Errorf("app watch error: %w", err)
	}
	return nil
}

func targetCommand(name, usage string) *cli.Command {
	return &cli.Command{
		Name:   name,
		Usage:  usage,
		Action: generateAction(name),
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "threadmap",
		Usage:  "Regenerate tag, timeline, lineage and diagram indexes for a Markdown notes vault",
		Action: generateAction(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Vault directory (overrides vault.path)",
				Sources: cli.EnvVars("THREADMAP_VAULT"),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would change without writing",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "all",
				Usage:  "Regenerate every enabled output (default)",
				Action: generateAction(),
			},
			targetCommand(generate.TargetTags, "Regenerate the tag-hierarchy index"),
			targetCommand(generate.TargetChrono, "Regenerate the creation-time index"),
			targetCommand(generate.TargetCanvas, "Regenerate the lineage canvas"),
			targetCommand(generate.TargetDiagram, "Regenerate the tag-flow diagram"),
			targetCommand(generate.TargetCatalog, "Sync the SQLite catalog"),
			{
				Name:   "watch",
				Usage:  "Regenerate whenever notes change",
				Action: watchAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
