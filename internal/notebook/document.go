package notebook

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dshills/notebookconcat/internal/lsp"
)

// TextDocument is the read-only document surface shared by cell buffers and
// the concatenated view.
type TextDocument interface {
	URI() lsp.DocumentURI
	FileName() string
	IsUntitled() bool
	LanguageID() string
	Version() int
	IsDirty() bool
	IsClosed() bool
	EOL() lsp.EndOfLine
	LineCount() int
	LineAt(line int) TextLine
	LineAtPosition(pos lsp.Position) TextLine
	OffsetAt(pos lsp.Position) int
	PositionAt(offset int) lsp.Position
	GetText(rng *lsp.Range) string
	WordRangeAtPosition(pos lsp.Position, pattern *regexp.Regexp) (lsp.Range, bool)
	ValidateRange(rng lsp.Range) lsp.Range
	ValidatePosition(pos lsp.Position) lsp.Position
}

// TextLine describes one line of a document.
type TextLine struct {
	LineNumber                       int
	Text                             string
	Range                            lsp.Range
	RangeIncludingLineBreak          lsp.Range
	FirstNonWhitespaceCharacterIndex int
	IsEmptyOrWhitespace              bool
}

// ContentChange is one replaced range within a document.
// RangeOffset and RangeLength are measured in UTF-16 code units.
type ContentChange struct {
	Range       lsp.Range
	RangeOffset int
	RangeLength int
	Text        string
}

// DocumentChangeEvent groups the content changes applied to one document by
// a single edit. Changes are ordered so that applying them in sequence to the
// previous text yields the new text.
type DocumentChangeEvent struct {
	Document       TextDocument
	ContentChanges []ContentChange
}

// Document is the text buffer of a single cell. Lines are separated by LF
// only; columns and offsets are UTF-16 code units.
type Document struct {
	uri        lsp.DocumentURI
	languageID string
	notebook   *Notebook
	lines      []string
	version    int
	dirty      bool
}

func newDocument(nb *Notebook, uri lsp.DocumentURI, languageID, text string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		notebook:   nb,
		lines:      strings.Split(normalizeSource(text), "\n"),
		version:    1,
	}
}

// normalizeSource converts line endings to LF and drops a single trailing
// LF, which notebook formats use as the cell terminator.
func normalizeSource(s string) string {
	s = normalizeLineEndings(s)
	return strings.TrimSuffix(s, "\n")
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// URI returns the cell identity.
func (d *Document) URI() lsp.DocumentURI { return d.uri }

// FileName returns the path of the owning notebook.
func (d *Document) FileName() string { return d.notebook.Path() }

// IsUntitled reports whether the owning notebook has never been saved.
func (d *Document) IsUntitled() bool { return d.notebook.IsUntitled() }

// LanguageID returns the cell language.
func (d *Document) LanguageID() string { return d.languageID }

// Version returns the document version. It starts at 1 and increases on every edit.
func (d *Document) Version() int { return d.version }

// IsDirty reports whether the cell was edited since the notebook was last saved or loaded.
func (d *Document) IsDirty() bool { return d.dirty }

// IsClosed reports whether the owning notebook is closed.
func (d *Document) IsClosed() bool { return d.notebook.IsClosed() }

// EOL returns the line ending, always LF.
func (d *Document) EOL() lsp.EndOfLine { return lsp.EndOfLineLF }

// LineCount returns the number of lines. An empty cell has one line.
func (d *Document) LineCount() int { return len(d.lines) }

// Text returns the full cell text.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// LineAt returns the line with the given number, clamped to the document.
func (d *Document) LineAt(line int) TextLine {
	line = d.clampLine(line)
	text := d.lines[line]
	length := lsp.UTF16Len(text)

	tl := TextLine{
		LineNumber: line,
		Text:       text,
		Range:      lsp.NewRange(line, 0, line, length),
	}
	if line < len(d.lines)-1 {
		tl.RangeIncludingLineBreak = lsp.NewRange(line, 0, line+1, 0)
	} else {
		tl.RangeIncludingLineBreak = tl.Range
	}

	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	tl.IsEmptyOrWhitespace = trimmed == ""
	if tl.IsEmptyOrWhitespace {
		tl.FirstNonWhitespaceCharacterIndex = length
	} else {
		tl.FirstNonWhitespaceCharacterIndex = lsp.UTF16Len(text[:len(text)-len(trimmed)])
	}
	return tl
}

// LineAtPosition returns the line containing pos.
func (d *Document) LineAtPosition(pos lsp.Position) TextLine {
	return d.LineAt(d.ValidatePosition(pos).Line)
}

// ValidatePosition clamps pos to the document.
func (d *Document) ValidatePosition(pos lsp.Position) lsp.Position {
	if pos.Line < 0 {
		return lsp.Position{}
	}
	if pos.Line >= len(d.lines) {
		last := len(d.lines) - 1
		return lsp.Position{Line: last, Character: lsp.UTF16Len(d.lines[last])}
	}
	if pos.Character < 0 {
		return lsp.Position{Line: pos.Line}
	}
	if length := lsp.UTF16Len(d.lines[pos.Line]); pos.Character > length {
		return lsp.Position{Line: pos.Line, Character: length}
	}
	return pos
}

// ValidateRange clamps both ends of rng and orders them.
func (d *Document) ValidateRange(rng lsp.Range) lsp.Range {
	start := d.ValidatePosition(rng.Start)
	end := d.ValidatePosition(rng.End)
	if lsp.IsPositionBefore(end, start) {
		start, end = end, start
	}
	return lsp.Range{Start: start, End: end}
}

// OffsetAt converts a position to a UTF-16 offset.
func (d *Document) OffsetAt(pos lsp.Position) int {
	pos = d.ValidatePosition(pos)
	offset := 0
	for i := 0; i < pos.Line; i++ {
		offset += lsp.UTF16Len(d.lines[i]) + 1
	}
	return offset + pos.Character
}

// PositionAt converts a UTF-16 offset to a position, clamping out-of-range offsets.
func (d *Document) PositionAt(offset int) lsp.Position {
	if offset <= 0 {
		return lsp.Position{}
	}
	for i, line := range d.lines {
		length := lsp.UTF16Len(line)
		if offset <= length {
			return lsp.Position{Line: i, Character: offset}
		}
		offset -= length + 1
	}
	last := len(d.lines) - 1
	return lsp.Position{Line: last, Character: lsp.UTF16Len(d.lines[last])}
}

// GetText returns the text within rng, or the whole document when rng is nil.
func (d *Document) GetText(rng *lsp.Range) string {
	text := d.Text()
	if rng == nil {
		return text
	}
	r := d.ValidateRange(*rng)
	return text[d.byteOffset(r.Start):d.byteOffset(r.End)]
}

// byteOffset converts a validated position to a byte index into Text().
func (d *Document) byteOffset(pos lsp.Position) int {
	offset := 0
	for i := 0; i < pos.Line; i++ {
		offset += len(d.lines[i]) + 1
	}
	return offset + lsp.UTF16ToByteOffset(d.lines[pos.Line], pos.Character)
}

// replace applies a single edit and reports it as a content change.
func (d *Document) replace(rng lsp.Range, text string) ContentChange {
	r := d.ValidateRange(rng)
	text = normalizeLineEndings(text)

	change := ContentChange{
		Range:       r,
		RangeOffset: d.OffsetAt(r.Start),
		Text:        text,
	}
	change.RangeLength = d.OffsetAt(r.End) - change.RangeOffset

	full := d.Text()
	updated := full[:d.byteOffset(r.Start)] + text + full[d.byteOffset(r.End):]
	d.lines = strings.Split(updated, "\n")
	d.version++
	d.dirty = true
	return change
}

func (d *Document) clampLine(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.lines) {
		return len(d.lines) - 1
	}
	return line
}
