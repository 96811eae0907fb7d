package huffman

import (
	"errors"
	"testing"
)

// bitSource feeds a fixed bit sequence to Decode, zero-filling past the
// end like the stream-backed readers do.
func bitSource(seq []uint32) func() uint32 {
	i := 0
	return func() uint32 {
		if i >= len(seq) {
			return 0
		}
		b := seq[i]
		i++
		return b
	}
}

// canonical three-symbol code: 0 -> 'a', 10 -> 'b', 11 -> 'c'.
func buildSmallTable(t *testing.T) *Decoder[byte] {
	t.Helper()
	var d Decoder[byte]
	codes := []Code[byte]{
		{Length: 1, Code: 0, Value: 'a'},
		{Length: 2, Code: 2, Value: 'b'},
		{Length: 2, Code: 3, Value: 'c'},
	}
	for _, c := range codes {
		if err := d.Insert(c); err != nil {
			t.Fatalf("Insert(%d,%d): %v", c.Length, c.Code, err)
		}
	}
	return &d
}

func TestDecodeAllInsertedCodes(t *testing.T) {
	d := buildSmallTable(t)
	tests := []struct {
		name string
		bits []uint32
		want byte
	}{
		{"0 -> a", []uint32{0}, 'a'},
		{"10 -> b", []uint32{1, 0}, 'b'},
		{"11 -> c", []uint32{1, 1}, 'c'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := d.Decode(bitSource(tt.bits))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if v != tt.want {
				t.Errorf("got %q, want %q", v, tt.want)
			}
		})
	}
}

func TestDecodeSequence(t *testing.T) {
	d := buildSmallTable(t)
	// "0 10 11 0" -> a b c a
	src := bitSource([]uint32{0, 1, 0, 1, 1, 0})
	want := []byte{'a', 'b', 'c', 'a'}
	for i, w := range want {
		v, err := d.Decode(src)
		if err != nil {
			t.Fatalf("symbol %d: %v", i, err)
		}
		if v != w {
			t.Errorf("symbol %d = %q, want %q", i, v, w)
		}
	}
}

func TestDecodeUncoveredPathFails(t *testing.T) {
	// Incomplete code: only 10 and 11 inserted, path 0... is uncovered.
	var d Decoder[byte]
	if err := d.Insert(Code[byte]{Length: 2, Code: 2, Value: 'b'}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := d.Insert(Code[byte]{Length: 2, Code: 3, Value: 'c'}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := d.Decode(bitSource([]uint32{0, 0})); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("got %v, want ErrInvalidCode", err)
	}
}

func TestDecodeEmptyTableFails(t *testing.T) {
	var d Decoder[byte]
	if _, err := d.Decode(bitSource(nil)); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("got %v, want ErrInvalidCode", err)
	}
}

func TestInsertCollisions(t *testing.T) {
	tests := []struct {
		name  string
		first Code[byte]
		next  Code[byte]
	}{
		{
			"exact duplicate",
			Code[byte]{Length: 2, Code: 2, Value: 'b'},
			Code[byte]{Length: 2, Code: 2, Value: 'x'},
		},
		{
			"new code passes through leaf",
			Code[byte]{Length: 1, Code: 1, Value: 'a'},
			Code[byte]{Length: 2, Code: 3, Value: 'x'},
		},
		{
			"new code is prefix of existing",
			Code[byte]{Length: 2, Code: 3, Value: 'a'},
			Code[byte]{Length: 1, Code: 1, Value: 'x'},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder[byte]
			if err := d.Insert(tt.first); err != nil {
				t.Fatalf("first Insert: %v", err)
			}
			if err := d.Insert(tt.next); !errors.Is(err, ErrCodeCollision) {
				t.Errorf("got %v, want ErrCodeCollision", err)
			}
		})
	}
}

func TestInsertInvalidLength(t *testing.T) {
	var d Decoder[byte]
	if err := d.Insert(Code[byte]{Length: 0, Code: 0, Value: 'a'}); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("length 0: got %v, want ErrInvalidLength", err)
	}
	if err := d.Insert(Code[byte]{Length: 33, Code: 0, Value: 'a'}); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("length 33: got %v, want ErrInvalidLength", err)
	}
}

func TestDeepCode(t *testing.T) {
	// Single long path plus its sibling chain, exercising multi-level
	// descent: 16-bit code of all ones and the all-ones-then-zero code.
	var d Decoder[uint16]
	if err := d.Insert(Code[uint16]{Length: 16, Code: 0xFFFF, Value: 1}); err != nil {
		t.Fatalf("Insert deep: %v", err)
	}
	if err := d.Insert(Code[uint16]{Length: 16, Code: 0xFFFE, Value: 2}); err != nil {
		t.Fatalf("Insert sibling: %v", err)
	}
	bits := make([]uint32, 16)
	for i := range bits {
		bits[i] = 1
	}
	v, err := d.Decode(bitSource(bits))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v != 1 {
		t.Errorf("got %d, want 1", v)
	}
	bits[15] = 0
	v, err = d.Decode(bitSource(bits))
	if err != nil {
		t.Fatalf("Decode sibling: %v", err)
	}
	if v != 2 {
		t.Errorf("got %d, want 2", v)
	}
}
