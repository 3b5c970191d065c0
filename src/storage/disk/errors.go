package disk

import "github.com/go-faster/errors"

var (
	ErrBlockOutOfRange = errors.New("block is out of file range")
	ErrShortRead       = errors.New("short block read")
	ErrShortWrite      = errors.New("short block write")
	ErrPageSize        = errors.New("page size does not match block size")
)
