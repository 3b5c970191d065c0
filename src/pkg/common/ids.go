package common

import "fmt"

// BlockID addresses one block of a file under the database directory.
// It is comparable and can be used as a map key.
type BlockID struct {
	filename string
	number   uint64
}

func NewBlockID(filename string, number uint64) BlockID {
	return BlockID{
		filename: filename,
		number:   number,
	}
}

func (b BlockID) Filename() string {
	return b.filename
}

func (b BlockID) Number() uint64 {
	return b.number
}

func (b BlockID) String() string {
	return fmt.Sprintf("[file %s, block %d]", b.filename, b.number)
}
