package main

import (
	"os"

	"github.com/Swind/go-steal-pool/core"
)

func newLogger(level string) (core.Logger, error) {
	lvl, err := core.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return core.NewDefaultLoggerWithWriter(os.Stderr, lvl), nil
}
