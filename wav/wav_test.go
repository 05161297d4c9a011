package wav

import (
	"testing"
)

func TestNullTermStr(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"with null", []byte{'h', 'e', 'l', 'l', 'o', 0, 'x'}, "hello"},
		{"no null", []byte{'h', 'e', 'l', 'l', 'o'}, "hello"},
		{"empty", []byte{}, ""},
		{"only null", []byte{0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nullTermStr(tt.in)
			if got != tt.want {
				t.Fatalf("nullTermStr(%v)=%q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClen(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{"with null at 3", []byte{'a', 'b', 'c', 0, 'd'}, 3},
		{"no null", []byte{'a', 'b', 'c'}, 3},
		{"empty", []byte{}, 0},
		{"null first", []byte{0, 'a'}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clen(tt.in)
			if got != tt.want {
				t.Fatalf("clen(%v)=%d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
