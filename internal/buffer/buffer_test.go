package buffer

import (
	"errors"
	"testing"
)

func TestReadEndianness(t *testing.T) {
	b := New([]byte{0x12, 0x34, 0x56, 0x78})

	tests := []struct {
		name string
		got  func() (uint32, error)
		want uint32
	}{
		{"LE16", func() (uint32, error) { v, err := b.ReadLE16(0); return uint32(v), err }, 0x3412},
		{"BE16", func() (uint32, error) { v, err := b.ReadBE16(0); return uint32(v), err }, 0x1234},
		{"LE32", func() (uint32, error) { return b.ReadLE32(0) }, 0x78563412},
		{"BE32", func() (uint32, error) { return b.ReadBE32(0) }, 0x12345678},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.got()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.want {
				t.Errorf("got 0x%x, want 0x%x", v, tt.want)
			}
		})
	}
}

func TestReadAtOffset(t *testing.T) {
	b := New([]byte{0x00, 0xAA, 0xBB})
	v, err := b.ReadLE16(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0xBBAA {
		t.Errorf("got 0x%x, want 0xBBAA", v)
	}
}

func TestReadOutOfBounds(t *testing.T) {
	b := New([]byte{0x01, 0x02, 0x03})

	tests := []struct {
		name string
		call func() error
	}{
		{"byte past end", func() error { _, err := b.Byte(3); return err }},
		{"byte negative", func() error { _, err := b.Byte(-1); return err }},
		{"LE16 straddling end", func() error { _, err := b.ReadLE16(2); return err }},
		{"BE16 straddling end", func() error { _, err := b.ReadBE16(2); return err }},
		{"LE32 too short", func() error { _, err := b.ReadLE32(0); return err }},
		{"BE32 past end", func() error { _, err := b.ReadBE32(1); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("got %v, want ErrOutOfBounds", err)
			}
		})
	}
}

func TestSizeAndByte(t *testing.T) {
	b := New([]byte{0x42, 0x43})
	if b.Size() != 2 {
		t.Errorf("Size = %d, want 2", b.Size())
	}
	v, err := b.Byte(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x43 {
		t.Errorf("Byte(1) = 0x%x, want 0x43", v)
	}
}

func TestEmptyBuffer(t *testing.T) {
	b := New(nil)
	if b.Size() != 0 {
		t.Errorf("Size = %d, want 0", b.Size())
	}
	if _, err := b.Byte(0); !errors.Is(err, ErrOutOfBounds) {
		t.Error("Byte(0) on empty buffer should fail")
	}
}
