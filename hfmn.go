package ancient

import (
	"fmt"

	"github.com/ntoskrnl7/ancient/internal/bits"
	"github.com/ntoskrnl7/ancient/internal/buffer"
	"github.com/ntoskrnl7/ancient/internal/huffman"
	"github.com/ntoskrnl7/ancient/internal/streams"
)

// HFMN is an XPK sub-codec that serializes the shape of a canonical
// Huffman tree in the header region and codes each raw byte as one symbol
// in the payload. The same bit reader walks both regions, reset in
// between.
func detectHFMN(hdr uint32) bool {
	return hdr == FourCC("HFMN")
}

type hfmnDecompressor struct {
	packed     buffer.Buffer
	headerSize int
	rawSize    int
}

func newHFMNDecompressor(hdr uint32, data []byte, recursionLevel int, verify bool) (XPKDecompressor, error) {
	b := buffer.New(data)
	if !detectHFMN(hdr) || b.Size() < 4 {
		return nil, fmt.Errorf("%w: not an HFMN stream", ErrInvalidFormat)
	}
	tmp, err := b.ReadBE16(0)
	if err != nil {
		return nil, fmt.Errorf("%w: HFMN header truncated", ErrInvalidFormat)
	}
	// The header is written in 4-byte chunks. The top 7 bits are
	// undocumented flags; they are masked off and ignored.
	if tmp&3 != 0 {
		return nil, fmt.Errorf("%w: HFMN header size not 4-byte aligned", ErrInvalidFormat)
	}
	headerSize := int(tmp & 0x1ff)
	if headerSize+4 > b.Size() {
		return nil, fmt.Errorf("%w: HFMN header size out of range", ErrInvalidFormat)
	}
	rawSize16, err := b.ReadBE16(headerSize + 2)
	if err != nil || rawSize16 == 0 {
		return nil, fmt.Errorf("%w: HFMN raw size missing", ErrInvalidFormat)
	}
	return &hfmnDecompressor{
		packed:     b,
		headerSize: headerSize + 4,
		rawSize:    int(rawSize16),
	}, nil
}

func (d *hfmnDecompressor) Name() string {
	return "XPK-HFMN: Huffman compressor"
}

func (d *hfmnDecompressor) VerifyPacked() bool {
	// No checksum in the format; construction already validated all there
	// is to validate.
	return true
}

func (d *hfmnDecompressor) VerifyRaw(raw []byte) bool {
	return len(raw) == d.rawSize
}

func (d *hfmnDecompressor) Decompress(raw, previous []byte) error {
	if len(raw) != d.rawSize {
		return fmt.Errorf("%w: HFMN output buffer size %d, want %d", ErrDecompression, len(raw), d.rawSize)
	}
	in, err := streams.NewInput(d.packed, 2, d.headerSize)
	if err != nil {
		return fmt.Errorf("%w: HFMN header region out of range", ErrDecompression)
	}
	reader := bits.NewMSBReader(in)
	readBit := func() uint32 {
		return reader.ReadBits(1)
	}

	// Rebuild the canonical code from the serialized tree shape. A zero
	// flag bit carries an 8-bit literal for the current path, then backs
	// out of completed right subtrees; a one flag bit extends the path.
	// The build is done when the path retreats past the root.
	var decoder huffman.Decoder[byte]
	code := uint32(1)
	codeBits := uint32(1)
	for {
		if readBit() == 0 {
			var lit byte
			for i := 0; i < 8; i++ {
				lit |= byte(readBit()) << i
			}
			if err := decoder.Insert(huffman.Code[byte]{Length: codeBits, Code: code, Value: lit}); err != nil {
				return fmt.Errorf("%w: HFMN tree shape invalid: %v", ErrDecompression, err)
			}
			for code&1 == 0 && codeBits > 0 {
				codeBits--
				code >>= 1
			}
			if codeBits == 0 {
				break
			}
			code--
		} else {
			code = code<<1 + 1
			codeBits++
			if codeBits > 32 {
				return fmt.Errorf("%w: HFMN code length exceeds 32 bits", ErrDecompression)
			}
		}
	}
	if reader.Starved() {
		return fmt.Errorf("%w: HFMN tree shape truncated", ErrDecompression)
	}

	payload, err := streams.NewInput(d.packed, d.headerSize, d.packed.Size())
	if err != nil {
		return fmt.Errorf("%w: HFMN payload region out of range", ErrDecompression)
	}
	reader.Reset(payload)

	out, err := streams.NewOutput(raw, 0, len(raw))
	if err != nil {
		return fmt.Errorf("%w: HFMN output range invalid", ErrDecompression)
	}
	for !out.EOF() {
		v, err := decoder.Decode(readBit)
		if err != nil {
			return fmt.Errorf("%w: HFMN payload invalid: %v", ErrDecompression, err)
		}
		if reader.Starved() {
			return fmt.Errorf("%w: HFMN payload truncated", ErrDecompression)
		}
		if err := out.WriteByte(v); err != nil {
			return fmt.Errorf("%w: HFMN output overrun", ErrDecompression)
		}
	}
	return nil
}
