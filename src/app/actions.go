package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/Blackdeer1524/blockfile/src/pkg/common"
	"github.com/Blackdeer1524/blockfile/src/storage/page"
)

func (e *StorageEntrypoint) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}

	return e.Out
}

// Bootstrap creates the database directory and the given block files if
// they are missing. Existing files are left as they are.
func Bootstrap(files ...string) Action {
	return func(_ context.Context, s *StorageEntrypoint) error {
		dir := s.Manager.Dir()

		isNew, err := s.Manager.IsNew()
		if err != nil {
			return err
		}

		if err := s.Fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}

		for _, name := range files {
			if err := createBlockFile(s.Fs, filepath.Join(dir, name)); err != nil {
				return err
			}
		}

		s.Log.Infow("database directory ready", "dir", dir, "new", isNew, "files", files)

		return nil
	}
}

func createBlockFile(fs afero.Fs, path string) error {
	file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	return file.Close()
}

func Info() Action {
	return func(_ context.Context, s *StorageEntrypoint) error {
		isNew, err := s.Manager.IsNew()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(
			s.out(),
			"dir: %s\nblock size: %d\nnew: %t\n",
			s.Manager.Dir(),
			s.Manager.BlockSize(),
			isNew,
		)

		return err
	}
}

func Length(filename string) Action {
	return func(_ context.Context, s *StorageEntrypoint) error {
		n, err := s.Manager.Length(filename)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(s.out(), n)

		return err
	}
}

func Append(filename string) Action {
	return func(_ context.Context, s *StorageEntrypoint) error {
		blk, err := s.Manager.Append(filename)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(s.out(), blk)

		return err
	}
}

func Dump(filename string, number uint64) Action {
	return func(_ context.Context, s *StorageEntrypoint) error {
		p := page.New(s.Manager.BlockSize())
		if err := s.Manager.Read(common.NewBlockID(filename, number), p); err != nil {
			return err
		}

		_, err := io.WriteString(s.out(), hex.Dump(p.Data()))

		return err
	}
}

// Scan reads every block of filename with at most parallelism reads in
// flight and stops at the first failure.
func Scan(filename string, parallelism int) Action {
	return func(ctx context.Context, s *StorageEntrypoint) error {
		n, err := s.Manager.Length(filename)
		if err != nil {
			return err
		}

		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(max(parallelism, 1))

		for i := uint64(0); i < n && gctx.Err() == nil; i++ {
			blk := common.NewBlockID(filename, i)
			eg.Go(func() error {
				return s.Manager.Read(blk, page.New(s.Manager.BlockSize()))
			})
		}

		if err := eg.Wait(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.Log.Debugw("scan finished", "file", filename, "blocks", n)
		_, err = fmt.Fprintf(s.out(), "%d blocks readable\n", n)

		return err
	}
}
