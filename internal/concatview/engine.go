package concatview

import (
	"github.com/dshills/notebookconcat/internal/concat"
	"github.com/dshills/notebookconcat/internal/event"
	"github.com/dshills/notebookconcat/internal/lsp"
	"github.com/dshills/notebookconcat/internal/notebook"
)

// Engine stitches notebook cells into one text stream and answers
// coordinate queries across it. *concat.Document implements it.
type Engine interface {
	LocationAt(pos lsp.Position) lsp.Location
	PositionAtLocation(loc lsp.Location) lsp.Position
	OffsetAt(pos lsp.Position) int
	PositionAt(offset int) lsp.Position
	GetText(rng *lsp.Range) string
	ValidateRange(rng lsp.Range) lsp.Range
	ValidatePosition(pos lsp.Position) lsp.Position
	Contains(uri lsp.DocumentURI) bool
	IsClosed() bool
	OnDidChange(observer func(concat.Change)) *event.Subscription
}

// NotebookAccess creates engines for notebooks.
type NotebookAccess interface {
	CreateConcatTextDocument(nb *notebook.Notebook, sel concat.Selector) Engine
}

// AccessFunc adapts a function to NotebookAccess.
type AccessFunc func(nb *notebook.Notebook, sel concat.Selector) Engine

// CreateConcatTextDocument calls f.
func (f AccessFunc) CreateConcatTextDocument(nb *notebook.Notebook, sel concat.Selector) Engine {
	return f(nb, sel)
}

// DefaultAccess builds engines with concat.New.
var DefaultAccess NotebookAccess = AccessFunc(func(nb *notebook.Notebook, sel concat.Selector) Engine {
	return concat.New(nb, sel)
})

var _ Engine = (*concat.Document)(nil)
