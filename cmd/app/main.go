package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/notionsite/internal"
	"github.com/starford/notionsite/internal/apperr"
	pkgconfig "github.com/starford/notionsite/pkg/config"
)

// rootFlags are declared once on the root command; subcommands read them
// through the command lineage.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file (optional)",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Notion integration token",
			Sources: cli.EnvVars("NOTION_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "database-id",
			Usage:   "Notion database to query",
			Sources: cli.EnvVars("DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:    "template",
			Aliases: []string{"t"},
			Usage:   "Template document holding the article markers",
			Sources: cli.EnvVars("SITE_TEMPLATE"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log output format: json or text",
			Sources: cli.EnvVars("LOG_FORMAT"),
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the spliced template to stdout instead of writing it",
		},
	}
}

// loadConfig builds the configuration from defaults, the optional YAML file
// and flag/env overrides, in that order. Validation happens in internal.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, &apperr.ConfigError{Err: fmt.Errorf("failed to parse config: %w", err)}
	}

	if v := cmd.String("token"); v != "" {
		cfg.Notion.Token = v
	}
	if v := cmd.String("database-id"); v != "" {
		cfg.Notion.DatabaseID = v
	}
	if v := cmd.String("template"); v != "" {
		cfg.Site.Template = v
	}
	if v := cmd.String("log-format"); v != "" {
		cfg.App.LogFormat = v
	}
	return cfg, nil
}

func runBuild(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}
	if cmd.Bool("dry-run") {
		opts = append(opts, internal.WithDryRun(os.Stdout))
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v := cmd.String("root"); v != "" {
		cfg.Preview.Root = v
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}
	if cmd.Bool("no-build") {
		opts = append(opts, internal.WithoutBuild())
	}

	if err := internal.Serve(ctx, opts...); err != nil {
		return fmt.Errorf("app serve error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "notionsite",
		Usage:  "Inject published Notion database entries into a static site template",
		Action: runBuild,
		Flags:  rootFlags(),
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Fetch published entries and rewrite the template (default)",
				Action: runBuild,
			},
			{
				Name:   "serve",
				Usage:  "Build, then serve the site locally with live reload events",
				Action: runServe,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "root",
						Usage:   "Directory to serve",
						Sources: cli.EnvVars("PREVIEW_ROOT"),
					},
					&cli.BoolFlag{
						Name:  "no-build",
						Usage: "Serve without building first",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error",
			slog.String("kind", string(apperr.KindOf(err))),
			slog.String("error", err.Error()))
		os.Exit(apperr.ExitCode(err))
	}
}
