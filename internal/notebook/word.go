package notebook

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/notebookconcat/internal/lsp"
)

// WordRangeAtPosition returns the range of the word at pos.
//
// With a nil pattern, words are Unicode word segments (UAX #29) that contain
// at least one letter, digit or underscore. With a pattern, words are its
// non-empty matches on the line. A word touching pos on either side counts.
func (d *Document) WordRangeAtPosition(pos lsp.Position, pattern *regexp.Regexp) (lsp.Range, bool) {
	pos = d.ValidatePosition(pos)
	line := d.lines[pos.Line]
	col := lsp.UTF16ToByteOffset(line, pos.Character)

	var start, end int
	var found bool
	if pattern != nil {
		start, end, found = patternWordAt(line, col, pattern)
	} else {
		start, end, found = segmentWordAt(line, col)
	}
	if !found {
		return lsp.Range{}, false
	}

	return lsp.NewRange(
		pos.Line, lsp.ByteToUTF16Offset(line, start),
		pos.Line, lsp.ByteToUTF16Offset(line, end),
	), true
}

func patternWordAt(line string, col int, pattern *regexp.Regexp) (int, int, bool) {
	for _, loc := range pattern.FindAllStringIndex(line, -1) {
		if loc[0] == loc[1] {
			continue
		}
		if loc[0] <= col && col <= loc[1] {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

func segmentWordAt(line string, col int) (int, int, bool) {
	state := -1
	offset := 0
	rest := line
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		start, end := offset, offset+len(word)
		offset = end

		if start > col {
			break
		}
		if col <= end && isWordSegment(word) {
			return start, end, true
		}
	}
	return 0, 0, false
}

func isWordSegment(s string) bool {
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		s = s[size:]
	}
	return false
}
