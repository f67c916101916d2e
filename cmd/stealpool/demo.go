package main

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Swind/go-steal-pool/core"
	"github.com/urfave/cli/v2"
)

func DemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Append the letters a..z from concurrent tasks and print them sorted",

		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   4,
				Usage:   "Number of workers",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Second,
				Usage: "How long to wait for the tasks",
			},
		},

		Action: DemoAction,
	}
}

func DemoAction(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	pool := core.NewPoolWithConfig(&core.PoolConfig{
		ID:      "demo",
		Workers: c.Int("workers"),
		Logger:  logger,
	})
	defer pool.Close()

	var (
		mu      sync.Mutex
		letters []byte
	)
	for ch := byte('a'); ch <= 'z'; ch++ {
		pool.InsertNamed(string(ch), func() {
			mu.Lock()
			letters = append(letters, ch)
			mu.Unlock()
		})
	}

	if !pool.WaitFor(c.Duration("timeout")) {
		return cli.Exit(fmt.Sprintf("timed out with %d unfinished tasks", pool.Unfinished()), 1)
	}

	mu.Lock()
	fmt.Printf("execution order: %s\n", letters)
	slices.Sort(letters)
	fmt.Printf("sorted:          %s\n", letters)
	mu.Unlock()

	return nil
}
