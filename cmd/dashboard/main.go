package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"user-dashboard/cmd/dashboard/app"
	"user-dashboard/cmd/dashboard/server"
	"user-dashboard/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "directory containing app.env (default: $CONFIG_PATH or .)")
	config.RegisterFlags(flagSet)
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	a, err := app.New(*configPath, flagSet)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	return a.Run(ctx)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `User dashboard: lists users from a remote service with a first-letter
filter and a name sort.

In tui mode the dashboard runs in the terminal and logs to dashboard.log.
In web mode it serves an HTML page, a JSON snapshot at /v1/dashboard and
a server-sent event stream at /v1/dashboard/events.

Usage:
  dashboard [flags]

Examples:
  # Open the terminal dashboard
  dashboard

  # Serve the dashboard on port 9090
  dashboard --mode web --http-port 9090

Flags:
%s`, flagSet.FlagUsages())
}
