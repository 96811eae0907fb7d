package ancient

import (
	"fmt"

	"github.com/ntoskrnl7/ancient/internal/bits"
	"github.com/ntoskrnl7/ancient/internal/buffer"
	"github.com/ntoskrnl7/ancient/internal/streams"
)

// MMCMP ("ziRC"/"ONia", Music Module Compressor) packs a file as an array
// of independently compressed blocks. Each block scatters its output over
// one or more sub-block ranges of the final raw buffer and carries its own
// flags, value-lookup table, adaptive bit width and checksum.
//
// Block header layout (little endian, at the block's address):
//
//	+0  u32 unpacked size    +4  u32 packed size   +8  u32 checksum
//	+12 u16 sub-block count  +14 u16 flags         +16 u16 table size
//	+18 u16 initial bit width
//	+20 sub-block descriptors (u32 offset, u32 size) * count
//	... value-lookup table (table size bytes), then the bit payload
const mmcmpVersion = 14

// Block flag bits. They combine irregularly: uncompressed blocks ignore
// all other flags, compressed 8-bit blocks honor only delta and the
// stereo channel toggle, compressed 16-bit blocks honor everything.
const (
	mmcmpCompressed = 1 << 0
	mmcmpDelta      = 1 << 1
	mmcmp16Bit      = 1 << 2
	mmcmpStereo     = 1 << 3
	mmcmpInterleave = 1 << 8
	mmcmpAbs16      = 1 << 9
	mmcmpBigEndian  = 1 << 10
)

func detectMMCMP(hdr uint32) bool {
	return hdr == FourCC("ziRC")
}

type mmcmpDecompressor struct {
	packed       buffer.Buffer
	verify       bool
	blocks       int
	blocksOffset int
	rawSize      int
	packedSize   int
}

// newMMCMPDecompressor validates the file header and every block extent.
// The maximum block extent defines the format's total packed size.
func newMMCMPDecompressor(data []byte, verify bool) (Decompressor, error) {
	b := buffer.New(data)
	hdr, err := b.ReadBE32(0)
	if err != nil || !detectMMCMP(hdr) {
		return nil, fmt.Errorf("%w: missing MMCMP magic", ErrInvalidFormat)
	}
	hdr2, err := b.ReadBE32(4)
	if err != nil || hdr2 != FourCC("ONia") {
		return nil, fmt.Errorf("%w: missing MMCMP secondary magic", ErrInvalidFormat)
	}
	version, err := b.ReadLE16(8)
	if err != nil || version != mmcmpVersion {
		return nil, fmt.Errorf("%w: unsupported MMCMP version %d", ErrInvalidFormat, version)
	}
	if b.Size() < 24 {
		return nil, fmt.Errorf("%w: MMCMP header truncated", ErrInvalidFormat)
	}
	blocks, _ := b.ReadLE16(12)
	rawSize, _ := b.ReadLE32(14)
	blocksOffset, _ := b.ReadLE32(18)

	d := &mmcmpDecompressor{
		packed:       b,
		verify:       verify,
		blocks:       int(blocks),
		blocksOffset: int(blocksOffset),
		rawSize:      int(rawSize),
	}
	if d.blocksOffset+d.blocks*4 > b.Size() {
		return nil, fmt.Errorf("%w: MMCMP block table out of range", ErrInvalidFormat)
	}
	for i := 0; i < d.blocks; i++ {
		blockAddr, err := b.ReadLE32(d.blocksOffset + i*4)
		if err != nil {
			return nil, fmt.Errorf("%w: MMCMP block table truncated", ErrInvalidFormat)
		}
		if int(blockAddr)+20 >= b.Size() {
			return nil, fmt.Errorf("%w: MMCMP block %d out of range", ErrInvalidFormat, i)
		}
		packedBlockSize, _ := b.ReadLE32(int(blockAddr) + 4)
		subBlocks, _ := b.ReadLE16(int(blockAddr) + 12)
		blockSize := int(packedBlockSize) + int(subBlocks)*8 + 20
		if ext := int(blockAddr) + blockSize; ext > d.packedSize {
			d.packedSize = ext
		}
	}
	if d.packedSize > b.Size() {
		return nil, fmt.Errorf("%w: MMCMP blocks exceed packed data", ErrInvalidFormat)
	}
	return d, nil
}

func (d *mmcmpDecompressor) Name() string {
	return "MMCMP: Music Module Compressor"
}

func (d *mmcmpDecompressor) PackedSize() int {
	return d.packedSize
}

func (d *mmcmpDecompressor) RawSize() int {
	return d.rawSize
}

func (d *mmcmpDecompressor) VerifyPacked() bool {
	// Block checksums cover decompressed bytes, so nothing beyond the
	// structural validation already done at construction can be checked.
	return true
}

func (d *mmcmpDecompressor) VerifyRaw(raw []byte) bool {
	return len(raw) >= d.rawSize
}

// blockWriter routes decoded bytes into the sub-block destination ranges
// of one block, advancing to the next descriptor as each range fills, and
// accumulates the block checksum when verification is on.
type blockWriter struct {
	packed    buffer.Buffer
	raw       []byte
	blockAddr int
	subBlocks int
	rawSize   int
	verify    bool

	current   int
	offset    int
	remaining int
	checksum  uint32
}

func (w *blockWriter) writeByte(v byte) error {
	for w.remaining == 0 {
		if w.current >= w.subBlocks {
			return fmt.Errorf("%w: MMCMP sub-blocks exhausted with output owed", ErrDecompression)
		}
		off, err := w.packed.ReadLE32(w.blockAddr + w.current*8 + 20)
		if err != nil {
			return fmt.Errorf("%w: MMCMP sub-block descriptor truncated", ErrDecompression)
		}
		size, err := w.packed.ReadLE32(w.blockAddr + w.current*8 + 24)
		if err != nil {
			return fmt.Errorf("%w: MMCMP sub-block descriptor truncated", ErrDecompression)
		}
		if int(off)+int(size) > w.rawSize {
			return fmt.Errorf("%w: MMCMP sub-block range out of bounds", ErrDecompression)
		}
		w.offset = int(off)
		w.remaining = int(size)
		w.current++
	}
	w.remaining--
	w.raw[w.offset] = v
	w.offset++
	if w.verify {
		w.checksum ^= uint32(v)
		w.checksum = w.checksum<<1 | w.checksum>>31
	}
	return nil
}

func (d *mmcmpDecompressor) Decompress(raw []byte) error {
	if len(raw) < d.rawSize {
		return fmt.Errorf("%w: output buffer smaller than raw size", ErrDecompression)
	}
	// Blocks need not cover every output byte, so gaps decode as zeros.
	clear(raw)

	for i := 0; i < d.blocks; i++ {
		addr32, err := d.packed.ReadLE32(d.blocksOffset + i*4)
		if err != nil {
			return fmt.Errorf("%w: MMCMP block table truncated", ErrDecompression)
		}
		if err := d.decompressBlock(raw, int(addr32)); err != nil {
			return err
		}
	}
	return nil
}

func (d *mmcmpDecompressor) decompressBlock(raw []byte, blockAddr int) error {
	unpackedBlockSize, err := d.packed.ReadLE32(blockAddr)
	if err != nil {
		return fmt.Errorf("%w: MMCMP block header truncated", ErrDecompression)
	}
	packedBlockSize, _ := d.packed.ReadLE32(blockAddr + 4)
	fileChecksum, _ := d.packed.ReadLE32(blockAddr + 8)
	subBlocks16, _ := d.packed.ReadLE16(blockAddr + 12)
	flags, _ := d.packed.ReadLE16(blockAddr + 14)
	packTableSize16, _ := d.packed.ReadLE16(blockAddr + 16)
	if uint32(packTableSize16) > packedBlockSize {
		return fmt.Errorf("%w: MMCMP value table larger than block", ErrDecompression)
	}
	bitCount16, _ := d.packed.ReadLE16(blockAddr + 18)

	subBlocks := int(subBlocks16)
	packTableSize := uint32(packTableSize16)
	bitCount := uint32(bitCount16)

	// The bit payload starts after the sub-block descriptors and the
	// inline value-lookup table.
	tableBase := blockAddr + subBlocks*8 + 20
	in, err := streams.NewInput(d.packed, tableBase+int(packTableSize), tableBase+int(packedBlockSize))
	if err != nil {
		return fmt.Errorf("%w: MMCMP block payload out of range", ErrDecompression)
	}
	reader := bits.NewLSBReader(in)

	writer := &blockWriter{
		packed:    d.packed,
		raw:       raw,
		blockAddr: blockAddr,
		subBlocks: subBlocks,
		rawSize:   d.rawSize,
		verify:    d.verify,
	}

	switch {
	case flags&mmcmpCompressed == 0:
		for j := uint32(0); j < packedBlockSize; j++ {
			v, err := in.ReadByte()
			if err != nil {
				return fmt.Errorf("%w: MMCMP uncompressed block truncated", ErrDecompression)
			}
			if err := writer.writeByte(v); err != nil {
				return err
			}
		}
	case flags&mmcmp16Bit == 0:
		if err := d.decompress8Bit(writer, reader, unpackedBlockSize, bitCount, flags, packTableSize, tableBase); err != nil {
			return err
		}
	default:
		if err := d.decompress16Bit(writer, reader, unpackedBlockSize, bitCount, flags); err != nil {
			return err
		}
	}

	if d.verify && writer.checksum != fileChecksum {
		return fmt.Errorf("%w: MMCMP block checksum mismatch", ErrVerification)
	}
	return nil
}

// decompress8Bit runs the adaptive bit-width loop for 8-bit blocks.
// Symbols index the block's inline value-lookup table; a value at or above
// the width's threshold signals a width change, or at the same width an
// escape in 0xf8..0xff, where 0xff plus a set bit ends the block early.
func (d *mmcmpDecompressor) decompress8Bit(writer *blockWriter, reader *bits.LSBReader,
	unpackedBlockSize, bitCount uint32, flags uint16, packTableSize uint32, tableBase int) error {

	valueThresholds := [8]uint32{0x1, 0x3, 0x7, 0xf, 0x1e, 0x3c, 0x78, 0xf8}
	extraBits := [8]uint{3, 3, 3, 3, 2, 1, 0, 0}

	if bitCount >= 8 {
		return fmt.Errorf("%w: MMCMP 8-bit block width %d out of range", ErrDecompression, bitCount)
	}
	var oldValue [2]byte
	chIndex := 0
	for j := uint32(0); j < unpackedBlockSize; {
		value := reader.ReadBits(uint(bitCount) + 1)
		if value >= valueThresholds[bitCount] {
			newBitCount := reader.ReadBits(extraBits[bitCount]) +
				(value-valueThresholds[bitCount])<<extraBits[bitCount]
			if bitCount != newBitCount {
				bitCount = newBitCount & 0x7
				continue
			}
			value = 0xf8 + reader.ReadBits(3)
			if value == 0xff && reader.ReadBits(1) != 0 {
				break
			}
		}
		if reader.Starved() {
			return fmt.Errorf("%w: MMCMP block payload truncated", ErrDecompression)
		}
		if value >= packTableSize {
			return fmt.Errorf("%w: MMCMP value %d outside lookup table", ErrDecompression, value)
		}
		v, err := d.packed.Byte(tableBase + int(value))
		if err != nil {
			return fmt.Errorf("%w: MMCMP lookup table out of range", ErrDecompression)
		}
		if flags&mmcmpDelta != 0 {
			v += oldValue[chIndex]
			oldValue[chIndex] = v
			if flags&mmcmpInterleave != 0 {
				chIndex ^= 1
			}
		}
		if err := writer.writeByte(v); err != nil {
			return err
		}
		j++
	}
	return nil
}

// decompress16Bit mirrors the 8-bit loop with 16-bit tables, except the
// decoded value is a signed zig-zag code rather than a table index. Each
// accepted sample emits two bytes in the flag-selected endianness.
func (d *mmcmpDecompressor) decompress16Bit(writer *blockWriter, reader *bits.LSBReader,
	unpackedBlockSize, bitCount uint32, flags uint16) error {

	valueThresholds := [16]uint32{
		0x1, 0x3, 0x7, 0xf, 0x1e, 0x3c, 0x78, 0xf0,
		0x1f0, 0x3f0, 0x7f0, 0xff0, 0x1ff0, 0x3ff0, 0x7ff0, 0xfff0,
	}
	extraBits := [16]uint{4, 4, 4, 4, 3, 2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	if bitCount >= 16 {
		return fmt.Errorf("%w: MMCMP 16-bit block width %d out of range", ErrDecompression, bitCount)
	}
	var oldValue [2]int16
	chIndex := 0
	for j := uint32(0); j < unpackedBlockSize; {
		value := int32(reader.ReadBits(uint(bitCount) + 1))
		if uint32(value) >= valueThresholds[bitCount] {
			newBitCount := reader.ReadBits(extraBits[bitCount]) +
				(uint32(value)-valueThresholds[bitCount])<<extraBits[bitCount]
			if bitCount != newBitCount {
				bitCount = newBitCount & 0xf
				continue
			}
			value = int32(0xfff0 + reader.ReadBits(4))
			if value == 0xffff && reader.ReadBits(1) != 0 {
				break
			}
		}
		if reader.Starved() {
			return fmt.Errorf("%w: MMCMP block payload truncated", ErrDecompression)
		}
		if value&1 != 0 {
			value = -value - 1
		}
		value >>= 1
		if flags&mmcmpDelta != 0 {
			value += int32(oldValue[chIndex])
			oldValue[chIndex] = int16(value)
			if flags&mmcmpInterleave != 0 {
				chIndex ^= 1
			}
		}
		if flags&mmcmpAbs16 != 0 {
			value ^= 0x8000
		}
		var first, second byte
		if flags&mmcmpBigEndian != 0 {
			first, second = byte(value>>8), byte(value)
		} else {
			first, second = byte(value), byte(value>>8)
		}
		if err := writer.writeByte(first); err != nil {
			return err
		}
		if err := writer.writeByte(second); err != nil {
			return err
		}
		j += 2
	}
	return nil
}
