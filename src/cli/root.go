package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Options are the persistent flags shared by every subcommand. Zero values
// mean "take it from the configuration".
type Options struct {
	ConfigPath  string
	DBDirectory string
	BlockSize   int
}

type RootCommand struct {
	*cobra.Command
	Options Options
}

func Init(name string) *RootCommand {
	cmd := &RootCommand{
		Command: &cobra.Command{
			Use:           name,
			Short:         "Inspect and bootstrap block files of a database directory",
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	}
	cmd.initFlags()

	return cmd
}

func (c *RootCommand) Execute(ctx context.Context) error {
	return c.ExecuteContext(ctx)
}

func (c *RootCommand) MustExecute(ctx context.Context) {
	if err := c.Execute(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s failed: %v\n", c.Name(), err)
		os.Exit(1)
	}
}
