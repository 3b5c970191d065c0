package app

import (
	"context"

	"github.com/Blackdeer1524/blockfile/src/cli"
)

var rootCmd = cli.Init("blockctl")

func MustExecute(ctx context.Context) {
	initCommands()
	rootCmd.MustExecute(ctx)
}
