// Package huffman implements a generic canonical Huffman symbol decoder.
//
// The table is built incrementally from (length, code, value) entries and
// consumed one bit at a time through a caller-supplied bit source, which
// lets the same decoder serve both fixed and on-the-fly constructed codes.
package huffman

import "errors"

// Table and bitstream errors.
var (
	ErrCodeCollision = errors.New("huffman: duplicate code inserted")
	ErrInvalidLength = errors.New("huffman: invalid code length")
	ErrInvalidCode   = errors.New("huffman: bit path matches no code")
)

// Code is a single canonical table entry: the Length low bits of Code,
// most significant first, form the bit path leading to Value.
type Code[T any] struct {
	Length uint32
	Code   uint32
	Value  T
}

// node index 0 is the root; a zero child slot means "no branch here",
// which is unambiguous because the root is never anyone's child.
type node[T any] struct {
	sub   [2]int32
	leaf  bool
	value T
}

// Decoder decodes symbols of type T from a canonical prefix code.
// The zero value is an empty table ready for Insert.
type Decoder[T any] struct {
	nodes []node[T]
}

// Insert registers a leaf at the canonical bit path of c.
// It fails if the path collides with a previously inserted code, either by
// duplicating it or by passing through an existing leaf.
func (d *Decoder[T]) Insert(c Code[T]) error {
	if c.Length == 0 || c.Length > 32 {
		return ErrInvalidLength
	}
	if len(d.nodes) == 0 {
		d.nodes = append(d.nodes, node[T]{})
	}
	cur := int32(0)
	for i := c.Length; i > 0; i-- {
		if d.nodes[cur].leaf {
			return ErrCodeCollision
		}
		bit := c.Code >> (i - 1) & 1
		next := d.nodes[cur].sub[bit]
		if next == 0 {
			if i == 1 {
				d.nodes = append(d.nodes, node[T]{leaf: true, value: c.Value})
			} else {
				d.nodes = append(d.nodes, node[T]{})
			}
			next = int32(len(d.nodes) - 1)
			d.nodes[cur].sub[bit] = next
		} else if i == 1 {
			// Path ends on an existing node: either the exact code was
			// inserted twice or a longer code already runs through here.
			return ErrCodeCollision
		}
		cur = next
	}
	return nil
}

// Decode walks the table one bit at a time, pulling bits from readBit,
// and returns the value of the leaf reached. A path that leaves the
// inserted set is malformed input and fails rather than guessing a symbol.
//
// The walk is bounded by the longest inserted code; across symbols the
// caller must bound total output independently (a corrupt bit source can
// keep producing decodable paths until the source itself is exhausted).
func (d *Decoder[T]) Decode(readBit func() uint32) (T, error) {
	var zero T
	if len(d.nodes) == 0 {
		return zero, ErrInvalidCode
	}
	cur := int32(0)
	for !d.nodes[cur].leaf {
		next := d.nodes[cur].sub[readBit()&1]
		if next == 0 {
			return zero, ErrInvalidCode
		}
		cur = next
	}
	return d.nodes[cur].value, nil
}
