package lsp

import (
	"testing"
)

const grin = "\U0001F600" // 4 bytes in UTF-8, 2 UTF-16 code units

func TestIsPositionBefore(t *testing.T) {
	tests := []struct {
		a, b     Position
		expected bool
	}{
		{Position{0, 0}, Position{0, 1}, true},
		{Position{0, 1}, Position{0, 0}, false},
		{Position{0, 5}, Position{1, 0}, true},
		{Position{1, 0}, Position{0, 5}, false},
		{Position{0, 0}, Position{0, 0}, false},
	}

	for _, tt := range tests {
		result := IsPositionBefore(tt.a, tt.b)
		if result != tt.expected {
			t.Errorf("IsPositionBefore(%v, %v): expected %v, got %v",
				tt.a, tt.b, tt.expected, result)
		}
	}
}

func TestIsPositionAfter(t *testing.T) {
	tests := []struct {
		a, b     Position
		expected bool
	}{
		{Position{0, 1}, Position{0, 0}, true},
		{Position{0, 0}, Position{0, 1}, false},
		{Position{1, 0}, Position{0, 5}, true},
		{Position{0, 0}, Position{0, 0}, false},
	}

	for _, tt := range tests {
		result := IsPositionAfter(tt.a, tt.b)
		if result != tt.expected {
			t.Errorf("IsPositionAfter(%v, %v): expected %v, got %v",
				tt.a, tt.b, tt.expected, result)
		}
	}
}

func TestComparePositions(t *testing.T) {
	tests := []struct {
		a, b     Position
		expected int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{0, 0}, Position{0, 1}, -1},
		{Position{2, 0}, Position{1, 9}, 1},
	}

	for _, tt := range tests {
		if got := ComparePositions(tt.a, tt.b); got != tt.expected {
			t.Errorf("ComparePositions(%v, %v): expected %d, got %d", tt.a, tt.b, tt.expected, got)
		}
	}
}

func TestRange_Predicates(t *testing.T) {
	empty := NewRange(1, 2, 1, 2)
	if !empty.IsEmpty() {
		t.Error("Expected zero-width range to be empty")
	}
	if empty.IsInverted() {
		t.Error("Zero-width range should not be inverted")
	}

	inverted := NewRange(3, 0, 1, 0)
	if !inverted.IsInverted() {
		t.Error("Expected range ending before its start to be inverted")
	}

	rng := NewRange(0, 2, 2, 4)
	if !rng.Contains(Position{1, 100}) {
		t.Error("Expected middle line to be contained")
	}
	if !rng.Contains(Position{2, 4}) {
		t.Error("Expected end to be contained (inclusive)")
	}
	if rng.Contains(Position{0, 1}) {
		t.Error("Expected position before start to be outside")
	}
}

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		s        string
		expected int
	}{
		{"", 0},
		{"hello", 5},
		{"日本語", 3},
		{grin, 2},
		{"a" + grin + "b", 4},
	}

	for _, tt := range tests {
		if result := UTF16Len(tt.s); result != tt.expected {
			t.Errorf("UTF16Len(%q): expected %d, got %d", tt.s, tt.expected, result)
		}
	}
}

func TestByteToUTF16Offset(t *testing.T) {
	s := "a" + grin + "b"

	tests := []struct {
		byteOff  int
		expected int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{5, 3},
		{6, 4},
		{99, 4},
	}

	for _, tt := range tests {
		if result := ByteToUTF16Offset(s, tt.byteOff); result != tt.expected {
			t.Errorf("ByteToUTF16Offset(%q, %d): expected %d, got %d",
				s, tt.byteOff, tt.expected, result)
		}
	}
}

func TestUTF16ToByteOffset(t *testing.T) {
	s := "a" + grin + "b"

	tests := []struct {
		utf16Off int
		expected int
	}{
		{0, 0},
		{1, 1},
		{2, 1}, // inside the surrogate pair
		{3, 5},
		{4, 6},
		{10, 6},
	}

	for _, tt := range tests {
		if result := UTF16ToByteOffset(s, tt.utf16Off); result != tt.expected {
			t.Errorf("UTF16ToByteOffset(%q, %d): expected %d, got %d",
				s, tt.utf16Off, tt.expected, result)
		}
	}
}
