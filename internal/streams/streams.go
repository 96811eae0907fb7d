// Package streams provides forward-only byte cursors over a sub-range of
// a buffer. Input cursors consume packed data; Output cursors fill raw
// data. Reaching the end of the range is reported, reading or writing past
// it is an error.
package streams

import (
	"errors"

	"github.com/ntoskrnl7/ancient/internal/buffer"
)

// Stream range errors.
var (
	ErrEndOfStream  = errors.New("streams: end of stream")
	ErrInvalidRange = errors.New("streams: invalid range")
)

// Input is a forward read cursor over buf[start:end).
type Input struct {
	buf buffer.Buffer
	pos int
	end int
}

// NewInput creates an Input over buf[start:end).
// The range must satisfy 0 <= start <= end <= buf.Size().
func NewInput(buf buffer.Buffer, start, end int) (*Input, error) {
	if start < 0 || start > end || end > buf.Size() {
		return nil, ErrInvalidRange
	}
	return &Input{buf: buf, pos: start, end: end}, nil
}

// ReadByte returns the next byte and advances the cursor.
func (s *Input) ReadByte() (byte, error) {
	if s.pos >= s.end {
		return 0, ErrEndOfStream
	}
	b, err := s.buf.Byte(s.pos)
	if err != nil {
		return 0, err
	}
	s.pos++
	return b, nil
}

// EOF reports whether the cursor has reached the end of its range.
func (s *Input) EOF() bool {
	return s.pos == s.end
}

// Pos returns the current absolute offset within the underlying buffer.
func (s *Input) Pos() int {
	return s.pos
}

// Output is a forward write cursor over data[start:end).
type Output struct {
	data []byte
	pos  int
	end  int
}

// NewOutput creates an Output over data[start:end).
func NewOutput(data []byte, start, end int) (*Output, error) {
	if start < 0 || start > end || end > len(data) {
		return nil, ErrInvalidRange
	}
	return &Output{data: data, pos: start, end: end}, nil
}

// WriteByte stores v at the cursor and advances.
func (s *Output) WriteByte(v byte) error {
	if s.pos >= s.end {
		return ErrEndOfStream
	}
	s.data[s.pos] = v
	s.pos++
	return nil
}

// EOF reports whether the cursor has reached the end of its range.
func (s *Output) EOF() bool {
	return s.pos == s.end
}

// Pos returns the current absolute offset within the underlying slice.
func (s *Output) Pos() int {
	return s.pos
}
