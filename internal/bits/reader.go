// Package bits provides bit-level readers over a forward input stream.
//
// Two variants exist because the supported formats disagree on bit order:
// MSBReader emits fields from the top bit of each byte down, LSBReader
// from bit 0 up. The order is fixed per format, never negotiated.
//
// Both readers refill their accumulator in whole bytes. A refill past the
// end of the underlying stream yields zero bits instead of failing;
// decoders bound their output by the declared raw size and consult the
// stream's EOF flag to detect truncated input.
package bits

import (
	"github.com/ntoskrnl7/ancient/internal/streams"
)

// MSBReader extracts bit fields most-significant-bit first.
type MSBReader struct {
	in      *streams.Input
	acc     uint64 // buffered bits, right-aligned
	cnt     uint   // valid bits in acc
	starved bool
}

// NewMSBReader creates an MSBReader over in.
func NewMSBReader(in *streams.Input) *MSBReader {
	return &MSBReader{in: in}
}

// ReadBits returns the next n bits, 0 <= n <= 32, packed MSB first.
// New bytes enter at the low end of the accumulator and fields leave from
// the high end, so bits appear in stream order.
func (r *MSBReader) ReadBits(n uint) uint32 {
	for r.cnt < n {
		b, err := r.in.ReadByte()
		if err != nil {
			r.starved = true
			b = 0
		}
		r.acc = r.acc<<8 | uint64(b)
		r.cnt += 8
	}
	r.cnt -= n
	return uint32(r.acc >> r.cnt & (1<<n - 1))
}

// Starved reports whether any refill ran past the end of the stream, i.e.
// whether zero-filled bits have been handed out. Decoders use this to
// distinguish a cleanly bounded decode from truncated input.
func (r *MSBReader) Starved() bool {
	return r.starved
}

// Reset discards buffered bits and repoints the reader at in. Used when a
// format's table and payload occupy disjoint regions read with the same
// reader object.
func (r *MSBReader) Reset(in *streams.Input) {
	r.in = in
	r.acc = 0
	r.cnt = 0
	r.starved = false
}

// LSBReader extracts bit fields least-significant-bit first.
type LSBReader struct {
	in      *streams.Input
	acc     uint64
	cnt     uint
	starved bool
}

// NewLSBReader creates an LSBReader over in.
func NewLSBReader(in *streams.Input) *LSBReader {
	return &LSBReader{in: in}
}

// ReadBits returns the next n bits, 0 <= n <= 32, packed LSB first.
// New bytes enter above the buffered bits and fields leave from bit 0 up.
func (r *LSBReader) ReadBits(n uint) uint32 {
	for r.cnt < n {
		b, err := r.in.ReadByte()
		if err != nil {
			r.starved = true
			b = 0
		}
		r.acc |= uint64(b) << r.cnt
		r.cnt += 8
	}
	ret := uint32(r.acc & (1<<n - 1))
	r.acc >>= n
	r.cnt -= n
	return ret
}

// Starved reports whether any refill ran past the end of the stream.
func (r *LSBReader) Starved() bool {
	return r.starved
}

// Reset discards buffered bits and repoints the reader at in.
func (r *LSBReader) Reset(in *streams.Input) {
	r.in = in
	r.acc = 0
	r.cnt = 0
	r.starved = false
}
