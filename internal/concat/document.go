package concat

import (
	"strings"

	"github.com/dshills/notebookconcat/internal/event"
	"github.com/dshills/notebookconcat/internal/lsp"
	"github.com/dshills/notebookconcat/internal/notebook"
)

// Change reports a notebook mutation that affected selected cells.
type Change struct {
	Kind notebook.ChangeKind
	// Cells are the selected cells the mutation touched.
	Cells []*notebook.Cell
	// Content holds the text changes of selected cells, cell-local.
	Content []notebook.DocumentChangeEvent
}

// Document stitches the selected cells of a notebook into one text stream,
// joining cells with a single LF. Nothing is cached: every query reads the
// notebook's current state.
type Document struct {
	notebook *notebook.Notebook
	selector Selector
	closed   bool
	changed  event.Emitter[Change]
	sub      *event.Subscription
}

// New creates a concatenation over the cells of nb matched by sel.
func New(nb *notebook.Notebook, sel Selector) *Document {
	d := &Document{
		notebook: nb,
		selector: sel,
	}
	d.sub = nb.OnDidChange(d.handleChange)
	return d
}

func (d *Document) handleChange(c notebook.Change) {
	switch c.Kind {
	case notebook.ChangeSaved:
		return
	case notebook.ChangeClosed:
		d.changed.Emit(Change{Kind: c.Kind})
		return
	}

	var ch Change
	ch.Kind = c.Kind
	for _, cell := range c.Cells() {
		if d.selector.Matches(cell) {
			ch.Cells = append(ch.Cells, cell)
		}
	}
	for _, ev := range c.Content {
		if cell, ok := d.notebook.CellByURI(ev.Document.URI()); ok && d.selector.Matches(cell) {
			ch.Content = append(ch.Content, ev)
		}
	}
	if len(ch.Cells) == 0 {
		return
	}
	d.changed.Emit(ch)
}

// OnDidChange subscribes to changes of the concatenated text.
func (d *Document) OnDidChange(observer func(Change)) *event.Subscription {
	return d.changed.Subscribe(observer)
}

// Close detaches from the notebook. Later notebook changes are not reported.
func (d *Document) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.sub.Unsubscribe()
	d.changed.Close()
}

// IsClosed reports whether the document or its notebook has been closed.
func (d *Document) IsClosed() bool {
	return d.closed || d.notebook.IsClosed()
}

// Cells returns the selected cells in notebook order.
func (d *Document) Cells() []*notebook.Cell {
	var cells []*notebook.Cell
	for _, c := range d.notebook.Cells() {
		if d.selector.Matches(c) {
			cells = append(cells, c)
		}
	}
	return cells
}

// Contains reports whether uri identifies one of the selected cells.
func (d *Document) Contains(uri lsp.DocumentURI) bool {
	for _, c := range d.Cells() {
		if c.URI() == uri {
			return true
		}
	}
	return false
}

// LineCount returns the number of concatenated lines.
func (d *Document) LineCount() int {
	total := 0
	for _, c := range d.Cells() {
		total += c.Document().LineCount()
	}
	return total
}

// LocationAt returns the cell owning pos and the equivalent zero-width
// cell-local range. pos is clamped first. With no selected cells the zero
// Location is returned.
func (d *Document) LocationAt(pos lsp.Position) lsp.Location {
	pos = d.ValidatePosition(pos)

	start := 0
	for _, c := range d.Cells() {
		n := c.Document().LineCount()
		if pos.Line < start+n {
			local := lsp.Position{Line: pos.Line - start, Character: pos.Character}
			return lsp.Location{URI: c.URI(), Range: lsp.Range{Start: local, End: local}}
		}
		start += n
	}
	return lsp.Location{}
}

// PositionAtLocation returns the concatenated position of loc's start.
// A location outside the selected cells is returned unchanged.
func (d *Document) PositionAtLocation(loc lsp.Location) lsp.Position {
	start := 0
	for _, c := range d.Cells() {
		doc := c.Document()
		if c.URI() == loc.URI {
			local := doc.ValidatePosition(loc.Range.Start)
			return lsp.Position{Line: start + local.Line, Character: local.Character}
		}
		start += doc.LineCount()
	}
	return loc.Range.Start
}

// ValidatePosition clamps pos to the concatenated text.
func (d *Document) ValidatePosition(pos lsp.Position) lsp.Position {
	cells := d.Cells()
	if len(cells) == 0 || pos.Line < 0 {
		return lsp.Position{}
	}

	start := 0
	for _, c := range cells {
		doc := c.Document()
		n := doc.LineCount()
		if pos.Line < start+n {
			local := doc.ValidatePosition(lsp.Position{Line: pos.Line - start, Character: pos.Character})
			return lsp.Position{Line: start + local.Line, Character: local.Character}
		}
		start += n
	}

	last := cells[len(cells)-1].Document()
	end := last.LineAt(last.LineCount() - 1)
	return lsp.Position{Line: start - 1, Character: end.Range.End.Character}
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

// OffsetAt converts a concatenated position to a UTF-16 offset.
func (d *Document) OffsetAt(pos lsp.Position) int {
	pos = d.ValidatePosition(pos)

	offset, start := 0, 0
	for _, c := range d.Cells() {
		doc := c.Document()
		n := doc.LineCount()
		if pos.Line < start+n {
			return offset + doc.OffsetAt(lsp.Position{Line: pos.Line - start, Character: pos.Character})
		}
		offset += lsp.UTF16Len(doc.Text()) + 1
		start += n
	}
	return 0
}

// PositionAt converts a UTF-16 offset to a concatenated position, clamping
// out-of-range offsets.
func (d *Document) PositionAt(offset int) lsp.Position {
	if offset < 0 {
		offset = 0
	}

	start := 0
	var last *notebook.Document
	for _, c := range d.Cells() {
		doc := c.Document()
		length := lsp.UTF16Len(doc.Text())
		if offset <= length {
			local := doc.PositionAt(offset)
			return lsp.Position{Line: start + local.Line, Character: local.Character}
		}
		offset -= length + 1
		start += doc.LineCount()
		last = doc
	}

	if last == nil {
		return lsp.Position{}
	}
	end := last.PositionAt(lsp.UTF16Len(last.Text()))
	return lsp.Position{Line: start - last.LineCount() + end.Line, Character: end.Character}
}

// GetText returns the text within rng, or all concatenated text when rng is nil.
func (d *Document) GetText(rng *lsp.Range) string {
	cells := d.Cells()
	texts := make([]string, 0, len(cells))
	for _, c := range cells {
		texts = append(texts, c.Document().Text())
	}
	full := strings.Join(texts, "\n")
	if rng == nil {
		return full
	}

	r := d.ValidateRange(*rng)
	startByte := lsp.UTF16ToByteOffset(full, d.OffsetAt(r.Start))
	endByte := lsp.UTF16ToByteOffset(full, d.OffsetAt(r.End))
	return full[startByte:endByte]
}
