package ancient

import "errors"

// Decoding failures fall into three terminal kinds plus the dispatcher's
// "nothing claimed this header" outcome. Details are wrapped with
// fmt.Errorf("%w: ...") where values help; match with errors.Is.
var (
	// ErrInvalidFormat means header or structure validation failed and
	// decoding was never attempted. At the top level the dispatcher
	// treats it as "try the next candidate".
	ErrInvalidFormat = errors.New("invalid format")

	// ErrDecompression means a structural violation was discovered mid
	// decode: a table index out of range, sub-block exhaustion, truncated
	// input, a declared size mismatch. Partial output is not usable.
	ErrDecompression = errors.New("decompression error")

	// ErrVerification means decoding completed but a checksum did not
	// match its stored value. Only raised when verification was requested;
	// the produced bytes are identical either way.
	ErrVerification = errors.New("verification error")

	// ErrUnknownFormat means no registered detector accepted the header.
	ErrUnknownFormat = errors.New("unknown format")
)
