package disk

import (
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Blackdeer1524/blockfile/src"
	"github.com/Blackdeer1524/blockfile/src/pkg/assert"
	"github.com/Blackdeer1524/blockfile/src/pkg/common"
	"github.com/Blackdeer1524/blockfile/src/pkg/utils"
	"github.com/Blackdeer1524/blockfile/src/storage/page"
)

// Manager moves whole blocks between pages and the files of one database
// directory. It keeps no file handles: every call opens the file, does its
// I/O and closes it before returning.
type Manager struct {
	fs        afero.Fs
	dir       string
	blockSize int

	log     src.Logger
	metrics ioMetrics

	// nil unless WithSerializedAppend was given
	appendLocks *fileLocks
}

type options struct {
	log              src.Logger
	meterProvider    metric.MeterProvider
	serializeAppends bool
}

type Option func(*options)

func WithLogger(log src.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// WithSerializedAppend makes Append hold a per-filename lock while it
// reads the file length and extends the file, so concurrent appends on
// one Manager never hand out the same block. Other processes and other
// Managers over the same directory are not covered.
func WithSerializedAppend() Option {
	return func(o *options) {
		o.serializeAppends = true
	}
}

// New returns a manager for dir. The directory is neither checked nor
// created here, see IsNew.
func New(fs afero.Fs, dir string, blockSize int, opts ...Option) *Manager {
	assert.Assert(blockSize > 0, "block size must be positive, got %d", blockSize)

	o := options{
		log:           zap.NewNop().Sugar(),
		meterProvider: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{
		fs:        fs,
		dir:       dir,
		blockSize: blockSize,

		log:     o.log,
		metrics: newIOMetrics(o.meterProvider),
	}

	if o.serializeAppends {
		m.appendLocks = newFileLocks()
	}

	m.log.Debugw(
		"disk manager created",
		"dir", dir,
		"block_size", blockSize,
		"serialized_append", o.serializeAppends,
	)

	return m
}

func (m *Manager) BlockSize() int {
	return m.blockSize
}

func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) path(filename string) string {
	return filepath.Join(m.dir, filename)
}

func (m *Manager) offset(blk common.BlockID) (int64, error) {
	//nolint:gosec
	bs := uint64(m.blockSize)
	if blk.Number() >= uint64(math.MaxInt64)/bs {
		return 0, errors.Wrapf(ErrBlockOutOfRange, "offset of %s overflows", blk)
	}

	//nolint:gosec
	return int64(blk.Number() * bs), nil
}

func (m *Manager) checkPage(p *page.Page) error {
	if p.Size() != m.blockSize {
		return errors.Wrapf(
			ErrPageSize,
			"page has %d bytes, block size is %d",
			p.Size(),
			m.blockSize,
		)
	}

	return nil
}

// Read fills p with the contents of blk. p is left untouched on failure.
func (m *Manager) Read(blk common.BlockID, p *page.Page) (err error) {
	if err := m.checkPage(p); err != nil {
		return err
	}

	offset, err := m.offset(blk)
	if err != nil {
		return err
	}

	file, err := m.fs.Open(m.path(blk.Filename()))
	if err != nil {
		return errors.Wrapf(err, "open %s", blk)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(file))

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrapf(err, "seek to %s", blk)
	}

	data := make([]byte, m.blockSize)

	n, err := io.ReadFull(file, data)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		if n == 0 {
			return errors.Wrapf(ErrBlockOutOfRange, "read %s", blk)
		}

		return errors.Wrapf(ErrShortRead, "read %s: got %d of %d bytes", blk, n, m.blockSize)
	}
	if err != nil {
		return errors.Wrapf(err, "read %s", blk)
	}

	copy(p.Data(), data)
	inc(m.metrics.read, blk.Filename())

	return nil
}

// Write stores p as blk. The file must already exist.
func (m *Manager) Write(blk common.BlockID, p *page.Page) (err error) {
	if err := m.checkPage(p); err != nil {
		return err
	}

	offset, err := m.offset(blk)
	if err != nil {
		return err
	}

	file, err := m.fs.OpenFile(m.path(blk.Filename()), os.O_WRONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "open %s", blk)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(file))

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrapf(err, "seek to %s", blk)
	}

	n, err := file.Write(p.Data())
	if err != nil {
		return errors.Wrapf(err, "write %s: wrote %d of %d bytes", blk, n, m.blockSize)
	}
	if n != m.blockSize {
		return errors.Wrapf(ErrShortWrite, "write %s: wrote %d of %d bytes", blk, n, m.blockSize)
	}

	inc(m.metrics.written, blk.Filename())

	return nil
}

// Append extends filename by one block and returns its id. Trailing bytes
// that do not form a whole block are covered by the new block. The content
// of the new block is whatever the file system gives a file extension.
//
// Unless the manager was built WithSerializedAppend, two concurrent calls
// on the same file may return the same block. Callers must serialize
// appends themselves in that case.
func (m *Manager) Append(filename string) (blk common.BlockID, err error) {
	if m.appendLocks != nil {
		unlock := m.appendLocks.lock(filename)
		defer unlock()
	}

	file, err := m.fs.OpenFile(m.path(filename), os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return common.BlockID{}, errors.Wrapf(err, "open %s", filename)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(file))

	info, err := file.Stat()
	if err != nil {
		return common.BlockID{}, errors.Wrapf(err, "stat %s", filename)
	}

	//nolint:gosec
	bs := uint64(m.blockSize)
	//nolint:gosec
	count := uint64(info.Size()) / bs
	if count+1 > uint64(math.MaxInt64)/bs {
		return common.BlockID{}, errors.Wrapf(ErrBlockOutOfRange, "%s has too many blocks", filename)
	}

	//nolint:gosec
	newSize := int64((count + 1) * bs)
	if err := file.Truncate(newSize); err != nil {
		return common.BlockID{}, errors.Wrapf(err, "extend %s to %d bytes", filename, newSize)
	}

	blk = common.NewBlockID(filename, count)
	inc(m.metrics.appended, filename)
	m.log.Debugw("block appended", "block", blk.String())

	return blk, nil
}

// IsNew reports whether the database directory does not exist yet.
// The manager never creates it.
func (m *Manager) IsNew() (bool, error) {
	exists, err := afero.DirExists(m.fs, m.dir)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", m.dir)
	}

	return !exists, nil
}

// Length returns the number of blocks in filename. A partial trailing
// block counts as a whole one.
func (m *Manager) Length(filename string) (uint64, error) {
	info, err := m.fs.Stat(m.path(filename))
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", filename)
	}

	//nolint:gosec
	return utils.CeilDiv(uint64(info.Size()), uint64(m.blockSize)), nil
}
