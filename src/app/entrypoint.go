package app

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"go.uber.org/multierr"
)

type Entrypoint interface {
	io.Closer
	Init(ctx context.Context) error
	Run(ctx context.Context) error
}

// Run initializes e, runs it until it returns or the process is
// interrupted, and closes it. Close is skipped when Init fails.
func Run(ctx context.Context, e Entrypoint) (err error) {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := e.Init(ctx); err != nil {
		return errors.Wrap(err, "entrypoint init")
	}
	defer multierr.AppendInvoke(&err, multierr.Close(e))

	return e.Run(ctx)
}
