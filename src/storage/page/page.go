package page

import (
	"encoding/binary"

	"github.com/go-faster/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/Blackdeer1524/blockfile/src/pkg/assert"
)

// IntSize is the on-page width of an integer field.
const IntSize = 4

var ErrOutOfBounds = errors.New("page access out of bounds")

// Charset decodes text fields. Invalid byte sequences are replaced with
// U+FFFD instead of failing the read.
var Charset encoding.Encoding = unicode.UTF8

// Page is an in-memory copy of a block (or of an arbitrary byte range).
// Integers are stored big-endian regardless of the host byte order.
type Page struct {
	data []byte
}

func New(blockSize int) *Page {
	assert.Assert(blockSize >= 0, "negative page size %d", blockSize)

	return &Page{data: make([]byte, blockSize)}
}

func FromBytes(b []byte) *Page {
	data := make([]byte, len(b))
	copy(data, b)

	return &Page{data: data}
}

func (p *Page) Size() int {
	return len(p.data)
}

// Data returns the page buffer itself. The disk manager reads into and
// writes from it directly.
func (p *Page) Data() []byte {
	return p.data
}

func (p *Page) slice(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset > len(p.data)-length {
		return nil, errors.Wrapf(
			ErrOutOfBounds,
			"range [%d, %d+%d) on page of %d bytes",
			offset,
			offset,
			length,
			len(p.data),
		)
	}

	return p.data[offset : offset+length], nil
}

func (p *Page) GetInt(offset int) (int32, error) {
	b, err := p.slice(offset, IntSize)
	if err != nil {
		return 0, err
	}

	//nolint:gosec
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (p *Page) SetInt(offset int, val int32) error {
	b, err := p.slice(offset, IntSize)
	if err != nil {
		return err
	}

	//nolint:gosec
	binary.BigEndian.PutUint32(b, uint32(val))

	return nil
}

// GetBytes returns a copy of length bytes starting at offset.
func (p *Page) GetBytes(offset, length int) ([]byte, error) {
	b, err := p.slice(offset, length)
	if err != nil {
		return nil, err
	}

	res := make([]byte, length)
	copy(res, b)

	return res, nil
}

func (p *Page) SetBytes(offset int, val []byte) error {
	b, err := p.slice(offset, len(val))
	if err != nil {
		return err
	}

	copy(b, val)

	return nil
}

func (p *Page) GetString(offset, length int) (string, error) {
	b, err := p.slice(offset, length)
	if err != nil {
		return "", err
	}

	decoded, err := Charset.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, "decode %d bytes at %d", length, offset)
	}

	return string(decoded), nil
}

func (p *Page) SetString(offset int, val string) error {
	return p.SetBytes(offset, []byte(val))
}

// MaxLength is the number of bytes reserved for a string of charCount
// units. Every unit is stored as one byte.
func MaxLength(charCount int) int {
	return charCount
}

// LenPrefixedSize is the space taken by a length-prefixed field with an
// n byte payload.
func LenPrefixedSize(n int) int {
	return IntSize + n
}

func (p *Page) getLenPrefix(offset int) (int, error) {
	n, err := p.GetInt(offset)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, errors.Wrapf(ErrOutOfBounds, "negative length prefix %d at %d", n, offset)
	}

	return int(n), nil
}

// GetLenPrefixedBytes reads a field written by SetLenPrefixedBytes.
func (p *Page) GetLenPrefixedBytes(offset int) ([]byte, error) {
	n, err := p.getLenPrefix(offset)
	if err != nil {
		return nil, err
	}

	return p.GetBytes(offset+IntSize, n)
}

// SetLenPrefixedBytes writes len(val) as an integer followed by val. Nothing
// is written if the whole field does not fit.
func (p *Page) SetLenPrefixedBytes(offset int, val []byte) error {
	if _, err := p.slice(offset, LenPrefixedSize(len(val))); err != nil {
		return err
	}

	//nolint:gosec
	if err := p.SetInt(offset, int32(len(val))); err != nil {
		return err
	}

	return p.SetBytes(offset+IntSize, val)
}

func (p *Page) GetLenPrefixedString(offset int) (string, error) {
	n, err := p.getLenPrefix(offset)
	if err != nil {
		return "", err
	}

	return p.GetString(offset+IntSize, n)
}

func (p *Page) SetLenPrefixedString(offset int, val string) error {
	return p.SetLenPrefixedBytes(offset, []byte(val))
}
