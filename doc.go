// Package ancient decodes legacy compressed container and music-module
// formats into raw byte streams. It targets archival and emulation tools
// that need to recover historical data losslessly from formats whose only
// surviving reference is binary compatibility.
//
// # Basic Usage
//
// To decode a packed file held fully in memory:
//
//	dec, err := ancient.NewDecompressor(packed, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	raw := make([]byte, dec.RawSize())
//	if err := dec.Decompress(raw); err != nil {
//	    log.Fatal(err)
//	}
//
// NewDecompressor probes the registered whole-file formats against the
// first four header bytes and returns the first decoder whose detection
// and structural validation both accept. Nested sub-format codecs (XPK
// style, addressed by FourCC tag) are reached through NewXPKDecompressor,
// which additionally bounds recursive nesting and accepts the previous
// pass's output for chained codecs.
//
// # Errors
//
// Failures are classified as ErrInvalidFormat (structure rejected before
// decoding), ErrDecompression (violation discovered mid-decode, including
// truncated input) or ErrVerification (checksum mismatch when verification
// was requested); ErrUnknownFormat is the dispatcher's "no format
// detected" outcome. All are terminal for the call and matchable with
// errors.Is.
//
// # Supported Formats
//
// Whole-file: MMCMP (Music Module Compressor).
// XPK sub-codecs: HFMN (Huffman), LZW4 (CyberYAFA LZ77).
//
// # Thread Safety
//
// Decoding is single-threaded and synchronous. The format catalogs are
// immutable after package initialization, so concurrent decode calls are
// safe as long as each call owns its output buffer; packed input is only
// ever read and may be shared.
package ancient
