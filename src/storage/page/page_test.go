package page

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsZeroFilled(t *testing.T) {
	p := New(400)

	require.Equal(t, 400, p.Size())
	assert.Equal(t, make([]byte, 400), p.Data())
}

func TestNewPanicsOnNegativeSize(t *testing.T) {
	require.Panics(t, func() { New(-1) })
}

func TestFromBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	p := FromBytes(src)

	src[0] = 42
	got, err := p.GetBytes(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, 3, p.Size())
}

func TestIntRoundTrip(t *testing.T) {
	p := New(64)
	values := []int32{0, 1, -1, 123, math.MaxInt32, math.MinInt32}

	r := rand.New(rand.NewSource(42))
	for n := 0; n < 100; n++ {
		//nolint:gosec
		values = append(values, int32(r.Uint32()))
	}

	for _, v := range values {
		offset := r.Intn(p.Size() - IntSize + 1)
		require.NoError(t, p.SetInt(offset, v))

		got, err := p.GetInt(offset)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestIntIsBigEndian(t *testing.T) {
	p := New(8)

	require.NoError(t, p.SetInt(2, 1))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 1, 0, 0}, p.Data())

	require.NoError(t, p.SetInt(4, -2))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xfe}, p.Data()[4:])

	q := FromBytes([]byte{0x00, 0x00, 0x00, 0x7b})
	got, err := q.GetInt(0)
	require.NoError(t, err)
	assert.Equal(t, int32(123), got)
}

func TestBytesRoundTrip(t *testing.T) {
	p := New(32)
	payload := []byte("raw\x00bytes\xff")

	require.NoError(t, p.SetBytes(5, payload))

	got, err := p.GetBytes(5, len(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got[0] = 'X'
	again, err := p.GetBytes(5, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("r"), again, "GetBytes must return a copy")
}

func TestStringRoundTrip(t *testing.T) {
	p := New(400)
	words := []string{"", "a", "hello world", "data.tbl", strings.Repeat("z", 396)}

	for _, w := range words {
		require.NoError(t, p.SetString(4, w))

		got, err := p.GetString(4, len(w))
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
}

func TestStringLossyDecoding(t *testing.T) {
	p := FromBytes([]byte{'a', 0xff, 'b', 0xc3})

	got, err := p.GetString(0, 4)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasPrefix(got, "a�b"), "got %q", got)
	assert.Contains(t, got, "�")
}

func TestMaxLength(t *testing.T) {
	for _, n := range []int{0, 1, 20, 400} {
		assert.Equal(t, n, MaxLength(n))
	}
}

func TestBoundsEnforcement(t *testing.T) {
	p := New(16)

	tests := []struct {
		name string
		op   func() error
	}{
		{"get int past end", func() error { _, err := p.GetInt(13); return err }},
		{"set int past end", func() error { return p.SetInt(16, 1) }},
		{"get int negative offset", func() error { _, err := p.GetInt(-1); return err }},
		{"get bytes past end", func() error { _, err := p.GetBytes(10, 7); return err }},
		{"get bytes negative length", func() error { _, err := p.GetBytes(0, -1); return err }},
		{"get bytes huge length", func() error { _, err := p.GetBytes(1, math.MaxInt); return err }},
		{"set bytes past end", func() error { return p.SetBytes(15, []byte{1, 2}) }},
		{"get string past end", func() error { _, err := p.GetString(0, 17); return err }},
		{"set string past end", func() error { return p.SetString(10, "seven!!") }},
		{"set len prefixed past end", func() error { return p.SetLenPrefixedString(8, "abcde") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			require.ErrorIs(t, err, ErrOutOfBounds)
		})
	}

	assert.Equal(t, make([]byte, 16), p.Data(), "failed writes must not modify the page")
}

func TestBoundsEdgesAreInclusive(t *testing.T) {
	p := New(16)

	require.NoError(t, p.SetInt(12, 7))
	require.NoError(t, p.SetBytes(16, nil))
	require.NoError(t, p.SetBytes(0, make([]byte, 16)))

	got, err := p.GetBytes(16, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLenPrefixedFields(t *testing.T) {
	p := New(64)

	require.NoError(t, p.SetLenPrefixedString(0, "data.tbl"))
	next := LenPrefixedSize(len("data.tbl"))
	require.NoError(t, p.SetLenPrefixedBytes(next, []byte{9, 8, 7}))

	n, err := p.GetInt(0)
	require.NoError(t, err)
	assert.Equal(t, int32(8), n)

	s, err := p.GetLenPrefixedString(0)
	require.NoError(t, err)
	assert.Equal(t, "data.tbl", s)

	b, err := p.GetLenPrefixedBytes(next)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 7}, b)
}

func TestLenPrefixedCorruptLength(t *testing.T) {
	p := New(16)

	require.NoError(t, p.SetInt(0, -5))
	_, err := p.GetLenPrefixedBytes(0)
	require.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, p.SetInt(0, 1000))
	_, err = p.GetLenPrefixedString(0)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestPageIsReusable(t *testing.T) {
	p := New(8)

	for i := int32(0); i < 10; i++ {
		require.NoError(t, p.SetInt(0, i))
		require.NoError(t, p.SetInt(4, -i))

		a, err := p.GetInt(0)
		require.NoError(t, err)
		b, err := p.GetInt(4)
		require.NoError(t, err)
		assert.Equal(t, i, a)
		assert.Equal(t, -i, b)
	}
}
