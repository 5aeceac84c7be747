package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	banksync "fjacquet/ledger-import/cmd/bank-sync"
	"fjacquet/ledger-import/cmd/ingest"
	"fjacquet/ledger-import/cmd/parse"
	"fjacquet/ledger-import/cmd/preview"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/cmd/rules"
	"fjacquet/ledger-import/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// Load .env before anything reads the environment; a missing file is fine
	_, _ = config.LoadEnv()

	// Set the global logrus level before any logger is built
	configureLogLevelDirectly()

	root.Init()

	root.Cmd.AddCommand(preview.Cmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(banksync.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

// configureLogLevelDirectly applies LEDGER_LOG_LEVEL to the global logrus logger
func configureLogLevelDirectly() {
	level, err := logrus.ParseLevel(strings.ToLower(config.GetEnv("LEDGER_LOG_LEVEL", "info")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.Cmd.ExecuteContext(ctx)
	if closeErr := root.Shutdown(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
