package notebook

import (
	"fmt"

	"github.com/dshills/notebookconcat/internal/lsp"
)

// CellKind distinguishes code cells from markup cells.
type CellKind int

const (
	// CellKindMarkup is a markdown (or other prose) cell.
	CellKindMarkup CellKind = 1
	// CellKindCode is an executable cell.
	CellKindCode CellKind = 2
)

// String returns the nbformat cell_type name.
func (k CellKind) String() string {
	switch k {
	case CellKindMarkup:
		return "markdown"
	case CellKindCode:
		return "code"
	default:
		return "unknown"
	}
}

// CellData describes a cell to insert or reload.
type CellData struct {
	Kind     CellKind
	Language string
	Source   string
	// ID is the nbformat 4.5 cell id, if any.
	ID string
}

// Cell is one unit of a notebook. Its URI stays the same for the life of
// the cell, across reorders and edits.
type Cell struct {
	notebook *Notebook
	handle   int
	id       string
	kind     CellKind
	doc      *Document
}

func cellURI(nb lsp.DocumentURI, handle int) lsp.DocumentURI {
	return lsp.WithFragment(nb, fmt.Sprintf("cell-%d", handle))
}

// URI returns the cell identity.
func (c *Cell) URI() lsp.DocumentURI { return c.doc.uri }

// ID returns the nbformat cell id, or "".
func (c *Cell) ID() string { return c.id }

// Kind returns the cell kind.
func (c *Cell) Kind() CellKind { return c.kind }

// Language returns the cell language identifier.
func (c *Cell) Language() string { return c.doc.languageID }

// Document returns the cell text buffer.
func (c *Cell) Document() *Document { return c.doc }

// Notebook returns the owning notebook.
func (c *Cell) Notebook() *Notebook { return c.notebook }

// Index returns the cell's current position in the notebook, or -1 if it
// has been removed.
func (c *Cell) Index() int {
	for i, other := range c.notebook.cells {
		if other == c {
			return i
		}
	}
	return -1
}
