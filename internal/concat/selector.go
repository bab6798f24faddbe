package concat

import (
	"slices"

	"github.com/dshills/notebookconcat/internal/notebook"
)

// Selector chooses which cells take part in the concatenation.
// An empty field matches everything.
type Selector struct {
	Languages []string
	Kinds     []notebook.CellKind
}

// All matches every cell.
var All = Selector{}

// Matches reports whether c is selected.
func (s Selector) Matches(c *notebook.Cell) bool {
	if len(s.Languages) > 0 && !slices.Contains(s.Languages, c.Language()) {
		return false
	}
	if len(s.Kinds) > 0 && !slices.Contains(s.Kinds, c.Kind()) {
		return false
	}
	return true
}
