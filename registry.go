package ancient

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxRecursionLevel bounds nested sub-codec invocation depth. A chain
// deeper than this is treated as malformed rather than followed.
const MaxRecursionLevel = 4

type format struct {
	name   string
	detect func(hdr uint32) bool
	create func(data []byte, verify bool) (Decompressor, error)
}

type xpkFormat struct {
	name   string
	detect func(hdr uint32) bool
	create func(hdr uint32, data []byte, recursionLevel int, verify bool) (XPKDecompressor, error)
}

// The catalogs are plain tables constructed here, in one place, so no
// behavior depends on initialization order across files. They are
// populated once and only read afterwards, which also makes concurrent
// dispatch safe.
var formats = []format{
	{name: "MMCMP", detect: detectMMCMP, create: newMMCMPDecompressor},
}

var xpkFormats = []xpkFormat{
	{name: "HFMN", detect: detectHFMN, create: newHFMNDecompressor},
	{name: "LZW4", detect: detectLZW4, create: newLZW4Decompressor},
}

// NewDecompressor probes the whole-file format catalog against the first
// four bytes of data and constructs the first decoder whose detector and
// structural validation both accept. A detector match whose construction
// fails with ErrInvalidFormat moves on to the next candidate; when no
// candidate accepts, the result is ErrUnknownFormat.
//
// verify enables checksum verification during Decompress for formats that
// carry one; it never changes the bytes produced.
func NewDecompressor(data []byte, verify bool) (Decompressor, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: input shorter than a format header", ErrUnknownFormat)
	}
	hdr := binary.BigEndian.Uint32(data)
	for _, f := range formats {
		if !f.detect(hdr) {
			continue
		}
		d, err := f.create(data, verify)
		if err == nil {
			return d, nil
		}
		if errors.Is(err, ErrInvalidFormat) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: header %08x", ErrUnknownFormat, hdr)
}

// NewXPKDecompressor constructs the sub-codec registered for the FourCC
// tag hdr. Sub-codec tags are unambiguous, so unlike the top-level
// dispatcher a tag match with invalid structure is a hard failure, not a
// fall-through. recursionLevel counts nested sub-codec invocations and is
// rejected above MaxRecursionLevel.
func NewXPKDecompressor(hdr uint32, data []byte, recursionLevel int, verify bool) (XPKDecompressor, error) {
	if recursionLevel > MaxRecursionLevel {
		return nil, fmt.Errorf("%w: sub-codec recursion level %d exceeds %d",
			ErrDecompression, recursionLevel, MaxRecursionLevel)
	}
	for _, f := range xpkFormats {
		if f.detect(hdr) {
			return f.create(hdr, data, recursionLevel, verify)
		}
	}
	return nil, fmt.Errorf("%w: sub-codec tag %08x", ErrUnknownFormat, hdr)
}
