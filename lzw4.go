package ancient

import (
	"fmt"
)

// LZW4 is an XPK sub-codec with a plain LZ77 stream: one flag bit selects
// a literal byte or a (distance, length) back-reference, and a zero
// distance ends the stream early. Flag bits are consumed MSB first from
// 32-bit big-endian words interleaved with the byte-aligned literal and
// reference fields, so the decoder keeps its own bit and byte cursors
// instead of the shared bit reader.
func detectLZW4(hdr uint32) bool {
	return hdr == FourCC("LZW4")
}

type lzw4Decompressor struct {
	packed []byte
}

func newLZW4Decompressor(hdr uint32, data []byte, recursionLevel int, verify bool) (XPKDecompressor, error) {
	if !detectLZW4(hdr) {
		return nil, fmt.Errorf("%w: not an LZW4 stream", ErrInvalidFormat)
	}
	return &lzw4Decompressor{packed: data}, nil
}

func (d *lzw4Decompressor) Name() string {
	return "XPK-LZW4: LZW4 CyberYAFA compressor"
}

func (d *lzw4Decompressor) VerifyPacked() bool {
	// Nothing can be checked without a full decode.
	return true
}

func (d *lzw4Decompressor) VerifyRaw(raw []byte) bool {
	return true
}

// lzw4Cursor holds the manual bit and byte cursors over the packed
// stream. Failed reads latch ok=false instead of erroring per call; the
// decode loop checks the latch once per item.
type lzw4Cursor struct {
	data       []byte
	offset     int
	bitContent uint32
	bitLength  uint
	ok         bool
}

func (c *lzw4Cursor) readBit() uint32 {
	if !c.ok {
		return 0
	}
	if c.bitLength == 0 {
		if c.offset+3 >= len(c.data) {
			c.ok = false
			return 0
		}
		c.bitContent = uint32(c.data[c.offset])<<24 |
			uint32(c.data[c.offset+1])<<16 |
			uint32(c.data[c.offset+2])<<8 |
			uint32(c.data[c.offset+3])
		c.offset += 4
		c.bitLength = 32
	}
	ret := c.bitContent >> 31
	c.bitContent <<= 1
	c.bitLength--
	return ret
}

func (c *lzw4Cursor) readByte() byte {
	if !c.ok || c.offset >= len(c.data) {
		c.ok = false
		return 0
	}
	v := c.data[c.offset]
	c.offset++
	return v
}

func (d *lzw4Decompressor) Decompress(raw, previous []byte) error {
	cur := &lzw4Cursor{data: d.packed, ok: true}

	destOffset := 0
	for cur.ok && destOffset != len(raw) {
		if cur.readBit() == 0 {
			if !cur.ok {
				break
			}
			raw[destOffset] = cur.readByte()
			destOffset++
			continue
		}
		distance := uint32(cur.readByte())<<8 | uint32(cur.readByte())
		if distance == 0 {
			break
		}
		distance = 65536 - distance
		count := int(cur.readByte()) + 3
		if !cur.ok {
			break
		}
		if int(distance) > destOffset || destOffset+count > len(raw) {
			cur.ok = false
			break
		}
		for i := 0; i < count; i++ {
			raw[destOffset] = raw[destOffset-int(distance)]
			destOffset++
		}
	}
	if !cur.ok || destOffset != len(raw) {
		return fmt.Errorf("%w: LZW4 stream truncated or invalid", ErrDecompression)
	}
	return nil
}
