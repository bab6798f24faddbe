package notebook

import (
	"testing"

	"github.com/dshills/notebookconcat/internal/lsp"
)

// applyChanges replays content changes in order against text.
func applyChanges(t *testing.T, text string, changes []ContentChange) string {
	t.Helper()
	doc := New("file:///scratch.ipynb", []CellData{{Kind: CellKindCode, Source: text}}).cells[0].doc
	for _, c := range changes {
		if doc.OffsetAt(c.Range.Start) != c.RangeOffset {
			t.Fatalf("Range start %v disagrees with offset %d", c.Range.Start, c.RangeOffset)
		}
		doc.replace(c.Range, c.Text)
	}
	return doc.Text()
}

func TestReload_DiffsMatchedCells(t *testing.T) {
	nb := New("file:///nb.ipynb", []CellData{
		{Kind: CellKindCode, Source: "import os\nprint(os.getcwd())", ID: "a"},
		{Kind: CellKindCode, Source: "x = 1\ny = 2", ID: "b"},
	}, WithLanguages("python"))
	cellA, cellB := nb.cells[0], nb.cells[1]

	var changes []Change
	nb.OnDidChange(func(c Change) { changes = append(changes, c) })

	newB := "x = 10\ny = 2\nz = x + y"
	err := nb.Reload(Contents{Cells: []CellData{
		{Kind: CellKindCode, Source: "import os\nprint(os.getcwd())\n", ID: "a"},
		{Kind: CellKindCode, Source: newB, ID: "b"},
	}})
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("Expected exactly one change, got %d", len(changes))
	}
	c := changes[0]
	if c.Kind != ChangeReload {
		t.Errorf("Expected reload, got %s", c.Kind)
	}
	if len(c.Added) != 0 || len(c.Removed) != 0 {
		t.Errorf("Expected cells to be matched, got %d added %d removed", len(c.Added), len(c.Removed))
	}
	if len(c.Edited) != 1 || c.Edited[0] != cellB {
		t.Fatalf("Expected only cell b to be edited")
	}
	if nb.cells[0] != cellA || nb.cells[1] != cellB {
		t.Error("Expected cell identities to survive reload")
	}

	got := applyChanges(t, "x = 1\ny = 2", c.Content[0].ContentChanges)
	if got != newB {
		t.Errorf("Replaying changes: expected %q, got %q", newB, got)
	}
	if cellB.doc.Text() != newB {
		t.Errorf("Expected document text %q, got %q", newB, cellB.doc.Text())
	}
	if cellB.doc.Version() != 2 || cellA.doc.Version() != 1 {
		t.Errorf("Unexpected versions a=%d b=%d", cellA.doc.Version(), cellB.doc.Version())
	}
}

func TestReload_StructuralChanges(t *testing.T) {
	nb := New("file:///nb.ipynb", []CellData{
		{Kind: CellKindCode, Source: "a", ID: "a"},
		{Kind: CellKindCode, Source: "b", ID: "b"},
	})
	cellA := nb.cells[0]

	var change Change
	nb.OnDidChange(func(c Change) { change = c })

	err := nb.Reload(Contents{
		Languages: []string{"r"},
		Cells: []CellData{
			{Kind: CellKindCode, Source: "c", ID: "c"},
			{Kind: CellKindCode, Source: "a", ID: "a"},
		},
	})
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if len(change.Added) != 1 || change.Added[0].ID() != "c" {
		t.Errorf("Expected cell c to be added")
	}
	if len(change.Removed) != 1 || change.Removed[0].ID() != "b" {
		t.Errorf("Expected cell b to be removed")
	}
	if cellA.Index() != 1 {
		t.Errorf("Expected cell a at index 1, got %d", cellA.Index())
	}
	if nb.LanguageID() != "r" {
		t.Errorf("Expected language r, got %q", nb.LanguageID())
	}
}

func TestReload_ReorderReportsMoves(t *testing.T) {
	nb := New("file:///nb.ipynb", []CellData{
		{Kind: CellKindCode, Source: "a = 1", ID: "a"},
		{Kind: CellKindCode, Source: "b = 2", ID: "b"},
		{Kind: CellKindCode, Source: "c = 3", ID: "c"},
	})
	cellA, cellB, cellC := nb.cells[0], nb.cells[1], nb.cells[2]

	var changes []Change
	nb.OnDidChange(func(c Change) { changes = append(changes, c) })

	err := nb.Reload(Contents{Cells: []CellData{
		{Kind: CellKindCode, Source: "b = 2", ID: "b"},
		{Kind: CellKindCode, Source: "a = 1", ID: "a"},
		{Kind: CellKindCode, Source: "c = 3", ID: "c"},
	}})
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("Expected exactly one change, got %d", len(changes))
	}
	c := changes[0]
	if len(c.Added) != 0 || len(c.Removed) != 0 || len(c.Edited) != 0 {
		t.Errorf("Expected only moves, got %d added %d removed %d edited", len(c.Added), len(c.Removed), len(c.Edited))
	}
	if len(c.Moved) != 2 || c.Moved[0] != cellB || c.Moved[1] != cellA {
		t.Errorf("Expected cells b and a to be moved, got %d moved", len(c.Moved))
	}
	if nb.cells[0] != cellB || nb.cells[1] != cellA || nb.cells[2] != cellC {
		t.Error("Expected cells in reloaded order")
	}
}

func TestReload_MatchesByIndexWithoutIDs(t *testing.T) {
	nb := newTestNotebook("one", "two")
	first := nb.cells[0]
	if _, err := nb.EditCell(0, lsp.NewRange(0, 0, 0, 0), "#"); err != nil {
		t.Fatal(err)
	}

	if err := nb.Reload(Contents{Cells: []CellData{
		{Kind: CellKindCode, Source: "one"},
		{Kind: CellKindMarkup, Source: "two"},
	}}); err != nil {
		t.Fatal(err)
	}

	if nb.cells[0] != first {
		t.Error("Expected first cell to be matched by index")
	}
	if nb.cells[1].Kind() != CellKindMarkup {
		t.Error("Expected kind change to replace the cell")
	}
	if nb.IsDirty() || first.doc.IsDirty() {
		t.Error("Expected reload to leave the notebook clean")
	}
}

func TestDiffTo_MultiByte(t *testing.T) {
	doc := firstDoc("emoji \U0001F600 here\nsecond")
	target := "emoji \U0001F600 there\nsecond line"

	changes := doc.diffTo(target)
	if len(changes) == 0 {
		t.Fatal("Expected changes")
	}
	for i := 1; i < len(changes); i++ {
		if changes[i].RangeOffset > changes[i-1].RangeOffset {
			t.Error("Expected changes ordered last-first")
		}
	}

	got := applyChanges(t, "emoji \U0001F600 here\nsecond", changes)
	if got != target {
		t.Errorf("Expected %q, got %q", target, got)
	}
	if doc.Text() != target {
		t.Errorf("Expected document to hold the new text, got %q", doc.Text())
	}
}
