package concatview

import (
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"sync/atomic"

	"github.com/dshills/notebookconcat/internal/concat"
	"github.com/dshills/notebookconcat/internal/event"
	"github.com/dshills/notebookconcat/internal/lsp"
	"github.com/dshills/notebookconcat/internal/notebook"
)

// Adapter presents a notebook as a single text document backed by an Engine.
//
// Coordinates passed to the query methods are in concatenated space. The
// To* methods translate between concatenated space and individual cells.
// Like the notebook it wraps, an Adapter is used from one goroutine.
type Adapter struct {
	notebook *notebook.Notebook
	engine   Engine
	selector concat.Selector
	uri      lsp.DocumentURI
	path     string
	version  atomic.Int64
	sub      *event.Subscription
	logger   *slog.Logger
}

type options struct {
	tokens   TokenSource
	template string
	logger   *slog.Logger
}

// Option configures an Adapter.
type Option func(*options)

// WithTokenSource sets the generator for the synthetic path token.
func WithTokenSource(src TokenSource) Option {
	return func(o *options) {
		if src != nil {
			o.tokens = src
		}
	}
}

// WithFilenameTemplate sets the synthetic file name template. The template
// should contain TokenPlaceholder.
func WithFilenameTemplate(template string) Option {
	return func(o *options) {
		if template != "" {
			o.template = template
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an adapter for nb. The engine is obtained from access for the
// cells matched by sel.
func New(nb *notebook.Notebook, access NotebookAccess, sel concat.Selector, opts ...Option) *Adapter {
	o := options{
		tokens:   NewToken,
		template: DefaultFilenameTemplate,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	path := SyntheticPath(filepath.Dir(nb.Path()), o.template, o.tokens())
	a := &Adapter{
		notebook: nb,
		selector: sel,
		path:     path,
		uri:      lsp.FilePathToURI(path),
		logger:   o.logger.With("view", path),
	}
	a.version.Store(1)
	a.engine = access.CreateConcatTextDocument(nb, sel)
	a.sub = a.engine.OnDidChange(a.handleChange)

	a.logger.Debug("concatenated view created", "notebook", nb.URI())
	return a
}

func (a *Adapter) handleChange(c concat.Change) {
	v := a.version.Add(1)
	a.logger.Debug("engine changed", "kind", c.Kind, "version", v)
}

// Dispose stops tracking engine changes and closes the engine when it
// supports closing. The adapter's owner is responsible for calling it.
func (a *Adapter) Dispose() {
	a.sub.Unsubscribe()
	if c, ok := a.engine.(interface{ Close() }); ok {
		c.Close()
	}
}

// Engine returns the concatenation engine backing the adapter.
func (a *Adapter) Engine() Engine { return a.engine }

// Notebook returns the wrapped notebook.
func (a *Adapter) Notebook() *notebook.Notebook { return a.notebook }

// Selector returns the cell filter the engine was created with.
func (a *Adapter) Selector() concat.Selector { return a.selector }

// NotebookURI returns the URI of the wrapped notebook.
func (a *Adapter) NotebookURI() lsp.DocumentURI { return a.notebook.URI() }

// URI returns the synthetic URI of the concatenated view.
func (a *Adapter) URI() lsp.DocumentURI { return a.uri }

// FileName returns the synthetic path of the concatenated view.
func (a *Adapter) FileName() string { return a.path }

// IsUntitled reports whether the notebook has never been saved.
func (a *Adapter) IsUntitled() bool { return a.notebook.IsUntitled() }

// LanguageID returns the notebook's primary language.
func (a *Adapter) LanguageID() string { return a.notebook.LanguageID() }

// Version starts at 1 and increases by one per engine change notification.
func (a *Adapter) Version() int { return int(a.version.Load()) }

// IsDirty reports whether the notebook has unsaved changes.
func (a *Adapter) IsDirty() bool { return a.notebook.IsDirty() }

// IsClosed reports whether the engine is closed.
func (a *Adapter) IsClosed() bool { return a.engine.IsClosed() }

// EOL is always LF.
func (a *Adapter) EOL() lsp.EndOfLine { return lsp.EndOfLineLF }

// LineCount sums the line counts of the engine's cells. Cells the selector
// leaves out, such as markdown cells under a code-only selector, are not
// counted, so the result always matches the engine's concatenated text.
func (a *Adapter) LineCount() int {
	total := 0
	for _, c := range a.notebook.Cells() {
		if a.engine.Contains(c.URI()) {
			total += c.Document().LineCount()
		}
	}
	return total
}

// LineAt returns the cell-local line that concatenated line number line
// falls in.
func (a *Adapter) LineAt(line int) notebook.TextLine {
	return a.LineAtPosition(lsp.Position{Line: line})
}

// LineAtPosition returns the cell-local line containing pos.
func (a *Adapter) LineAtPosition(pos lsp.Position) notebook.TextLine {
	loc := a.engine.LocationAt(pos)
	c := a.cellAt(loc, "line at")
	return c.Document().LineAtPosition(loc.Range.Start)
}

// OffsetAt converts a concatenated position to a concatenated offset.
func (a *Adapter) OffsetAt(pos lsp.Position) int { return a.engine.OffsetAt(pos) }

// PositionAt converts a concatenated offset to a concatenated position.
func (a *Adapter) PositionAt(offset int) lsp.Position { return a.engine.PositionAt(offset) }

// GetText returns the concatenated text in rng, or all of it when rng is nil.
func (a *Adapter) GetText(rng *lsp.Range) string { return a.engine.GetText(rng) }

// ValidateRange clamps rng to the concatenated text.
func (a *Adapter) ValidateRange(rng lsp.Range) lsp.Range { return a.engine.ValidateRange(rng) }

// ValidatePosition clamps pos to the concatenated text.
func (a *Adapter) ValidatePosition(pos lsp.Position) lsp.Position {
	return a.engine.ValidatePosition(pos)
}

// WordRangeAtPosition returns the word around pos in the owning cell, as
// that cell's document reports it. Words never span cells.
func (a *Adapter) WordRangeAtPosition(pos lsp.Position, pattern *regexp.Regexp) (lsp.Range, bool) {
	loc := a.engine.LocationAt(pos)
	c := a.cellAt(loc, "word range")
	return c.Document().WordRangeAtPosition(loc.Range.Start, pattern)
}

// IsCellOfDocument reports whether uri is one of the engine's cells.
func (a *Adapter) IsCellOfDocument(uri lsp.DocumentURI) bool {
	return a.engine.Contains(uri)
}

// GetConcatDocument returns a when doc is one of its cells, otherwise doc.
func (a *Adapter) GetConcatDocument(doc notebook.TextDocument) notebook.TextDocument {
	if a.IsCellOfDocument(doc.URI()) {
		return a
	}
	return doc
}

// Save always panics with ErrSaveUnsupported.
func (a *Adapter) Save() {
	fatal("save", ErrSaveUnsupported)
}

func (a *Adapter) cellAt(loc lsp.Location, op string) *notebook.Cell {
	c, ok := a.notebook.CellByURI(loc.URI)
	if !ok {
		a.logger.Error("engine and notebook out of sync", "op", op, "cell", loc.URI)
		fatal(op, ErrCellNotFound)
	}
	return c
}

var _ notebook.TextDocument = (*Adapter)(nil)
