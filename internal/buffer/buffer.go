// Package buffer provides bounds-checked multi-byte reads over a byte
// slice. Every accessor validates the full field width against the buffer
// size and returns ErrOutOfBounds instead of truncating or panicking.
package buffer

import (
	"encoding/binary"
	"errors"
)

// ErrOutOfBounds indicates a read whose field extends past the buffer end.
var ErrOutOfBounds = errors.New("buffer: read out of bounds")

// Buffer is a fixed-length byte sequence with checked field accessors.
// The underlying slice is borrowed from the caller and never reallocated.
type Buffer struct {
	data []byte
}

// New wraps data in a Buffer. The Buffer borrows the slice; the caller
// must not shrink it while the Buffer is in use.
func New(data []byte) Buffer {
	return Buffer{data: data}
}

// Size returns the buffer length in bytes.
func (b Buffer) Size() int {
	return len(b.data)
}

// Bytes returns the underlying slice.
func (b Buffer) Bytes() []byte {
	return b.data
}

// Byte returns the byte at offset i.
func (b Buffer) Byte(i int) (byte, error) {
	if i < 0 || i >= len(b.data) {
		return 0, ErrOutOfBounds
	}
	return b.data[i], nil
}

// ReadLE16 reads a little-endian 16-bit field at offset i.
func (b Buffer) ReadLE16(i int) (uint16, error) {
	if i < 0 || i+2 > len(b.data) {
		return 0, ErrOutOfBounds
	}
	return binary.LittleEndian.Uint16(b.data[i:]), nil
}

// ReadLE32 reads a little-endian 32-bit field at offset i.
func (b Buffer) ReadLE32(i int) (uint32, error) {
	if i < 0 || i+4 > len(b.data) {
		return 0, ErrOutOfBounds
	}
	return binary.LittleEndian.Uint32(b.data[i:]), nil
}

// ReadBE16 reads a big-endian 16-bit field at offset i.
func (b Buffer) ReadBE16(i int) (uint16, error) {
	if i < 0 || i+2 > len(b.data) {
		return 0, ErrOutOfBounds
	}
	return binary.BigEndian.Uint16(b.data[i:]), nil
}

// ReadBE32 reads a big-endian 32-bit field at offset i.
func (b Buffer) ReadBE32(i int) (uint32, error) {
	if i < 0 || i+4 > len(b.data) {
		return 0, ErrOutOfBounds
	}
	return binary.BigEndian.Uint32(b.data[i:]), nil
}
