package app

import (
	"runtime"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	storageapp "github.com/Blackdeer1524/blockfile/src/app"
)

func run(cmd *cobra.Command, action storageapp.Action) error {
	return storageapp.Run(cmd.Context(), &storageapp.StorageEntrypoint{
		Options: rootCmd.Options,
		Fs:      afero.NewOsFs(),
		Out:     cmd.OutOrStdout(),
		Action:  action,
	})
}

func initCommands() {
	var parallelism int

	scan := &cobra.Command{
		Use:   "scan <file>",
		Short: "Reads every block of a file and reports the first failure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, storageapp.Scan(args[0], parallelism))
		},
	}
	scan.Flags().IntVarP(&parallelism, "parallelism", "p", runtime.GOMAXPROCS(0), "Reads in flight")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "init [file...]",
			Short: "Creates the database directory and empty block files",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, storageapp.Bootstrap(args...))
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Prints the directory, block size and whether the database is new",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, storageapp.Info())
			},
		},
		&cobra.Command{
			Use:   "length <file>",
			Short: "Prints the number of blocks in a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, storageapp.Length(args[0]))
			},
		},
		&cobra.Command{
			Use:   "append <file>",
			Short: "Allocates a new block at the end of a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, storageapp.Append(args[0]))
			},
		},
		&cobra.Command{
			Use:   "dump <file> <block>",
			Short: "Hex dumps one block",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				number, err := strconv.ParseUint(args[1], 10, 64)
				if err != nil {
					return errors.Wrapf(err, "parse block number %q", args[1])
				}

				return run(cmd, storageapp.Dump(args[0], number))
			},
		},
		scan,
	)
}
