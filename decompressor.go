package ancient

// Decompressor is a validated, ready-to-run decoder for a whole-file
// format. Instances are created through NewDecompressor (or a format
// factory directly) and hold references to the packed input plus the
// header-derived sizes; construction performs all structural validation,
// so a Decompressor in hand is safe to run.
type Decompressor interface {
	// Name returns the human-readable format name.
	Name() string

	// PackedSize returns the exact number of packed input bytes the
	// format claims, which may be less than the supplied buffer.
	PackedSize() int

	// RawSize returns the exact decompressed size. The caller must pass
	// Decompress a buffer of at least this length.
	RawSize() int

	// Decompress decodes into raw. It fills exactly RawSize bytes or
	// fails with ErrDecompression / ErrVerification; partial output is
	// never usable.
	Decompress(raw []byte) error

	// VerifyPacked reports whether the packed data passes the structural
	// and checksum checks available without a full decode. Formats with
	// no such check honestly report what construction alone could vouch
	// for rather than guessing.
	VerifyPacked() bool

	// VerifyRaw reports whether raw is consistent with checks the format
	// can run against decompressed data, under the same honesty rule.
	VerifyRaw(raw []byte) bool
}

// XPKDecompressor is a nested sub-format codec addressed by FourCC tag.
// Unlike whole-file formats it receives the previous pass's output (for
// chained sub-codecs whose decode depends on it) and is constructed with
// a recursion level bounded by MaxRecursionLevel.
type XPKDecompressor interface {
	// Name returns the human-readable sub-format name.
	Name() string

	// Decompress decodes into raw, which the caller has pre-sized to the
	// sub-codec's exact declared raw size. previous holds the prior
	// pass's raw output, or nil for the first pass.
	Decompress(raw, previous []byte) error

	// VerifyPacked reports best-effort packed-data validity.
	VerifyPacked() bool

	// VerifyRaw reports best-effort raw-data validity.
	VerifyRaw(raw []byte) bool
}
