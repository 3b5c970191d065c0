package app

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Blackdeer1524/blockfile/src"
	"github.com/Blackdeer1524/blockfile/src/cfg"
	"github.com/Blackdeer1524/blockfile/src/cli"
	"github.com/Blackdeer1524/blockfile/src/storage/disk"
)

func NewLogger(env cfg.Environment) (src.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == cfg.EnvProd {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	return log.Sugar(), nil
}

func NewManager(fs afero.Fs, config cfg.StorageConfig, log src.Logger) *disk.Manager {
	opts := []disk.Option{disk.WithLogger(log)}
	if config.SerializeAppends {
		opts = append(opts, disk.WithSerializedAppend())
	}

	return disk.New(fs, config.DBDirectory, config.BlockSize, opts...)
}

// Action is one unit of work against an initialized storage session.
type Action func(ctx context.Context, s *StorageEntrypoint) error

// StorageEntrypoint loads the configuration, builds a logger and a disk
// manager over Fs, and runs Action with them.
type StorageEntrypoint struct {
	Options cli.Options
	Fs      afero.Fs
	Out     io.Writer
	Action  Action

	// set by Init; tests may preset Log to skip building one
	Config  cfg.StorageConfig
	Log     src.Logger
	Manager *disk.Manager
}

var _ Entrypoint = &StorageEntrypoint{}

func (e *StorageEntrypoint) Init(_ context.Context) error {
	config, err := cfg.ReadConfig(e.Options.ConfigPath)
	if err != nil {
		return errors.Wrap(err, "read config")
	}

	if e.Options.DBDirectory != "" {
		config.DBDirectory = e.Options.DBDirectory
	}
	if e.Options.BlockSize != 0 {
		config.BlockSize = e.Options.BlockSize
	}

	if err := config.Validate(); err != nil {
		return errors.Wrap(err, "validate config")
	}

	e.Config = config

	if e.Log == nil {
		log, err := NewLogger(config.Environment)
		if err != nil {
			return err
		}

		e.Log = log
	}

	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}

	e.Manager = NewManager(e.Fs, config, e.Log)

	return nil
}

func (e *StorageEntrypoint) Run(ctx context.Context) error {
	if e.Action == nil {
		return errors.New("no action to run")
	}

	return e.Action(ctx, e)
}

func (e *StorageEntrypoint) Close() error {
	if e.Log != nil {
		// syncing a terminal's stderr fails with EINVAL on linux
		_ = e.Log.Sync()
	}

	return nil
}
