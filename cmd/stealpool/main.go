package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "stealpool",
		Usage: "Run workloads on a work-stealing pool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Minimum log level (debug, info, warn, error)",
				EnvVars: []string{"STEALPOOL_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			BenchCommand(),
			DemoCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
