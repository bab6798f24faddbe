package notebook

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/dshills/notebookconcat/internal/event"
	"github.com/dshills/notebookconcat/internal/lsp"
)

// ChangeKind identifies what a notebook Change describes.
type ChangeKind int

const (
	// ChangeCellsInserted indicates new cells were added.
	ChangeCellsInserted ChangeKind = iota
	// ChangeCellsRemoved indicates cells were deleted.
	ChangeCellsRemoved
	// ChangeCellMoved indicates a cell changed position.
	ChangeCellMoved
	// ChangeCellContent indicates a cell's text was edited.
	ChangeCellContent
	// ChangeReload indicates the notebook was re-read from disk.
	ChangeReload
	// ChangeSaved indicates the dirty state was cleared.
	ChangeSaved
	// ChangeClosed indicates the notebook was closed.
	ChangeClosed
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCellsInserted:
		return "inserted"
	case ChangeCellsRemoved:
		return "removed"
	case ChangeCellMoved:
		return "moved"
	case ChangeCellContent:
		return "content"
	case ChangeReload:
		return "reload"
	case ChangeSaved:
		return "saved"
	case ChangeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Change is emitted once per notebook mutation, however many cells it touched.
type Change struct {
	Kind     ChangeKind
	Notebook *Notebook
	Added    []*Cell
	Removed  []*Cell
	Moved    []*Cell
	Edited   []*Cell
	// Content holds the text changes of the cells in Edited, in the same order.
	Content []DocumentChangeEvent
}

// Cells returns every cell the change touched.
func (c Change) Cells() []*Cell {
	cells := make([]*Cell, 0, len(c.Added)+len(c.Removed)+len(c.Moved)+len(c.Edited))
	cells = append(cells, c.Added...)
	cells = append(cells, c.Removed...)
	cells = append(cells, c.Moved...)
	return append(cells, c.Edited...)
}

// Notebook is an ordered sequence of cells.
//
// A Notebook is not safe for concurrent use; callers serialise mutations and
// queries on one goroutine. Change observers run synchronously inside the
// mutating call.
type Notebook struct {
	uri        lsp.DocumentURI
	untitled   bool
	languages  []string
	cells      []*Cell
	nextHandle int
	dirty      bool
	closed     bool
	changed    event.Emitter[Change]
	logger     *slog.Logger
}

// Option configures a Notebook.
type Option func(*Notebook)

// WithLanguages sets the notebook's declared languages, primary first.
func WithLanguages(languages ...string) Option {
	return func(nb *Notebook) {
		nb.languages = append([]string(nil), languages...)
	}
}

// WithUntitled marks the notebook as never saved.
func WithUntitled() Option {
	return func(nb *Notebook) {
		nb.untitled = true
	}
}

// WithLogger sets the logger for notebook events.
func WithLogger(logger *slog.Logger) Option {
	return func(nb *Notebook) {
		if logger != nil {
			nb.logger = logger
		}
	}
}

// New creates a notebook holding the given cells.
func New(uri lsp.DocumentURI, cells []CellData, opts ...Option) *Notebook {
	nb := &Notebook{
		uri:    uri,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(nb)
	}

	for _, data := range cells {
		nb.cells = append(nb.cells, nb.newCell(data))
	}
	return nb
}

// Untitled creates an unsaved notebook named name.
func Untitled(name string, cells []CellData, opts ...Option) *Notebook {
	opts = append([]Option{WithUntitled()}, opts...)
	return New(lsp.DocumentURI("untitled:"+name), cells, opts...)
}

func (nb *Notebook) newCell(data CellData) *Cell {
	handle := nb.nextHandle
	nb.nextHandle++

	language := data.Language
	if language == "" {
		if data.Kind == CellKindMarkup {
			language = "markdown"
		} else {
			language = nb.LanguageID()
		}
	}

	c := &Cell{
		notebook: nb,
		handle:   handle,
		id:       data.ID,
		kind:     data.Kind,
	}
	c.doc = newDocument(nb, cellURI(nb.uri, handle), language, data.Source)
	return c
}

// URI returns the notebook identity.
func (nb *Notebook) URI() lsp.DocumentURI { return nb.uri }

// Path returns the notebook file path (the URI itself for non-file URIs).
func (nb *Notebook) Path() string { return lsp.URIToFilePath(nb.uri) }

// IsUntitled reports whether the notebook has never been saved.
func (nb *Notebook) IsUntitled() bool { return nb.untitled }

// IsDirty reports whether the notebook has unsaved changes.
func (nb *Notebook) IsDirty() bool { return nb.dirty }

// IsClosed reports whether the notebook has been closed.
func (nb *Notebook) IsClosed() bool { return nb.closed }

// Languages returns the declared languages, primary first.
func (nb *Notebook) Languages() []string {
	return slices.Clone(nb.languages)
}

// LanguageID returns the primary language, or "plaintext" if none is declared.
func (nb *Notebook) LanguageID() string {
	if len(nb.languages) == 0 {
		return "plaintext"
	}
	return nb.languages[0]
}

// Cells returns the cells in order. The slice is a copy.
func (nb *Notebook) Cells() []*Cell {
	return slices.Clone(nb.cells)
}

// CellCount returns the number of cells.
func (nb *Notebook) CellCount() int { return len(nb.cells) }

// CellAt returns the cell at index.
func (nb *Notebook) CellAt(index int) (*Cell, error) {
	if index < 0 || index >= len(nb.cells) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return nb.cells[index], nil
}

// CellByURI returns the cell with the given identity.
func (nb *Notebook) CellByURI(uri lsp.DocumentURI) (*Cell, bool) {
	for _, c := range nb.cells {
		if c.URI() == uri {
			return c, true
		}
	}
	return nil, false
}

// OnDidChange subscribes to notebook changes.
func (nb *Notebook) OnDidChange(observer func(Change)) *event.Subscription {
	return nb.changed.Subscribe(observer)
}

// InsertCells inserts cells before index (len(cells) appends).
func (nb *Notebook) InsertCells(index int, data ...CellData) ([]*Cell, error) {
	if nb.closed {
		return nil, ErrClosed
	}
	if index < 0 || index > len(nb.cells) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	added := make([]*Cell, 0, len(data))
	for _, d := range data {
		added = append(added, nb.newCell(d))
	}
	nb.cells = slices.Insert(nb.cells, index, added...)
	nb.dirty = true

	nb.logger.Debug("cells inserted", "notebook", nb.uri, "index", index, "count", len(added))
	nb.changed.Emit(Change{Kind: ChangeCellsInserted, Notebook: nb, Added: added})
	return added, nil
}

// RemoveCells removes count cells starting at index.
func (nb *Notebook) RemoveCells(index, count int) ([]*Cell, error) {
	if nb.closed {
		return nil, ErrClosed
	}
	if index < 0 || count < 0 || index+count > len(nb.cells) {
		return nil, fmt.Errorf("%w: %d+%d", ErrIndexOutOfRange, index, count)
	}

	removed := slices.Clone(nb.cells[index : index+count])
	nb.cells = slices.Delete(nb.cells, index, index+count)
	nb.dirty = true

	nb.logger.Debug("cells removed", "notebook", nb.uri, "index", index, "count", count)
	nb.changed.Emit(Change{Kind: ChangeCellsRemoved, Notebook: nb, Removed: removed})
	return removed, nil
}

// MoveCell moves the cell at from so that it ends up at index to.
func (nb *Notebook) MoveCell(from, to int) error {
	if nb.closed {
		return ErrClosed
	}
	if from < 0 || from >= len(nb.cells) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, from)
	}
	if to < 0 || to >= len(nb.cells) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, to)
	}
	if from == to {
		return nil
	}

	c := nb.cells[from]
	nb.cells = slices.Delete(nb.cells, from, from+1)
	nb.cells = slices.Insert(nb.cells, to, c)
	nb.dirty = true

	nb.logger.Debug("cell moved", "notebook", nb.uri, "from", from, "to", to)
	nb.changed.Emit(Change{Kind: ChangeCellMoved, Notebook: nb, Moved: []*Cell{c}})
	return nil
}

// EditCell replaces rng in the cell at index with text.
func (nb *Notebook) EditCell(index int, rng lsp.Range, text string) (ContentChange, error) {
	if nb.closed {
		return ContentChange{}, ErrClosed
	}
	c, err := nb.CellAt(index)
	if err != nil {
		return ContentChange{}, err
	}

	change := c.doc.replace(rng, text)
	nb.dirty = true

	nb.changed.Emit(Change{
		Kind:     ChangeCellContent,
		Notebook: nb,
		Edited:   []*Cell{c},
		Content: []DocumentChangeEvent{{
			Document:       c.doc,
			ContentChanges: []ContentChange{change},
		}},
	})
	return change, nil
}

// MarkSaved clears the dirty state of the notebook and its cells.
func (nb *Notebook) MarkSaved() {
	if nb.closed {
		return
	}
	nb.dirty = false
	for _, c := range nb.cells {
		c.doc.dirty = false
	}
	nb.changed.Emit(Change{Kind: ChangeSaved, Notebook: nb})
}

// Close closes the notebook. Observers receive a final ChangeClosed.
func (nb *Notebook) Close() {
	if nb.closed {
		return
	}
	nb.closed = true
	nb.changed.Emit(Change{Kind: ChangeClosed, Notebook: nb})
	nb.changed.Close()
}
