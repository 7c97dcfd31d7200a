package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"gapscan/internal/app"
	"gapscan/internal/config"
	"gapscan/internal/logging"
	"gapscan/internal/usecase"
)

func main() {
	cmd := &cli.Command{
		Name:  "gapscan",
		Usage: "Analyze how well a webpage covers the topics expected for a keyword",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("GAPSCAN_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "full",
				Usage:     "Run the complete analysis: dimensions, hierarchy, content, gap scoring",
				ArgsUsage: "<keyword> <keywords.csv> <target-url>",
				Action:    runFull,
			},
			{
				Name:      "gap",
				Usage:     "Run gap scoring against saved hierarchy and content artifacts",
				ArgsUsage: "<hierarchy.json> <content.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "key-word",
						Usage: "Override the central keyword from the saved hierarchy",
					},
				},
				Action: runGap,
			},
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server",
				Action: runServe,
			},
		},
	}

	if err := cmd.Run(rootContext(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}

func buildApp(cmd *cli.Command) (*app.Application, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	return app.New(cfg, logging.New(cfg.Logging.Level))
}

func runFull(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 3 {
		return fmt.Errorf("usage: gapscan full <keyword> <keywords.csv> <target-url>")
	}

	application, err := buildApp(cmd)
	if err != nil {
		return err
	}

	result, err := application.Pipeline().RunFull(ctx, cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2))
	if err != nil {
		return err
	}

	fmt.Println(usecase.Summary(result))
	return nil
}

func runGap(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: gapscan gap <hierarchy.json> <content.json>")
	}

	application, err := buildApp(cmd)
	if err != nil {
		return err
	}

	result, err := application.Pipeline().RunGap(ctx, cmd.Args().Get(0), cmd.Args().Get(1), cmd.String("key-word"))
	if err != nil {
		return err
	}

	fmt.Println(usecase.Summary(result))
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	application, err := buildApp(cmd)
	if err != nil {
		return err
	}
	return application.Serve(ctx)
}
