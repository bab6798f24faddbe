package lsp

// NewRange returns the range between (startLine, startChar) and (endLine, endChar).
func NewRange(startLine, startChar, endLine, endChar int) Range {
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

// IsEmpty reports whether the range has zero width.
func (r Range) IsEmpty() bool {
	return IsPositionEqual(r.Start, r.End)
}

// IsInverted reports whether the range ends before it starts.
func (r Range) IsInverted() bool {
	return IsPositionBefore(r.End, r.Start)
}

// Contains reports whether pos is within the range (inclusive).
func (r Range) Contains(pos Position) bool {
	return IsPositionInRange(pos, r)
}

// IsPositionBefore returns true if a is before b.
func IsPositionBefore(a, b Position) bool {
	if a.Line < b.Line {
		return true
	}
	if a.Line > b.Line {
		return false
	}
	return a.Character < b.Character
}

// IsPositionAfter returns true if a is after b.
func IsPositionAfter(a, b Position) bool {
	return IsPositionBefore(b, a)
}

// IsPositionEqual returns true if a and b are equal.
func IsPositionEqual(a, b Position) bool {
	return a.Line == b.Line && a.Character == b.Character
}

// IsPositionInRange returns true if pos is within the range (inclusive).
func IsPositionInRange(pos Position, rng Range) bool {
	if IsPositionBefore(pos, rng.Start) {
		return false
	}
	if IsPositionAfter(pos, rng.End) {
		return false
	}
	return true
}

// ComparePositions returns -1 if a < b, 0 if a == b, 1 if a > b.
func ComparePositions(a, b Position) int {
	if a.Line < b.Line {
		return -1
	}
	if a.Line > b.Line {
		return 1
	}
	if a.Character < b.Character {
		return -1
	}
	if a.Character > b.Character {
		return 1
	}
	return 0
}

// --- UTF-16 conversion helpers ---

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	count := 0
	for _, r := range s {
		if r >= 0x10000 {
			count += 2 // Surrogate pair
		} else {
			count++
		}
	}
	return count
}

// ByteToUTF16Offset converts a byte offset within s to a UTF-16 offset.
func ByteToUTF16Offset(s string, byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff >= len(s) {
		return UTF16Len(s)
	}

	utf16Off := 0
	for i, r := range s {
		if i >= byteOff {
			break
		}
		if r >= 0x10000 {
			utf16Off += 2
		} else {
			utf16Off++
		}
	}
	return utf16Off
}

// UTF16ToByteOffset converts a UTF-16 offset within s to a byte offset.
// Offsets past the end clamp to len(s); an offset inside a surrogate pair
// resolves to the start of that rune.
func UTF16ToByteOffset(s string, utf16Off int) int {
	if utf16Off <= 0 {
		return 0
	}

	utf16Count := 0
	for i, r := range s {
		width := 1
		if r >= 0x10000 {
			width = 2
		}
		if utf16Count+width > utf16Off {
			return i
		}
		utf16Count += width
	}
	return len(s)
}
