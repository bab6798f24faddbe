package concatview

import (
	"errors"
	"testing"

	"github.com/dshills/notebookconcat/internal/concat"
	"github.com/dshills/notebookconcat/internal/lsp"
	"github.com/dshills/notebookconcat/internal/notebook"
)

func TestRegistry_OpenClose(t *testing.T) {
	r := NewRegistry(DefaultAccess, WithTokenSource(fixedToken))
	nb := newTestNotebook("a", "b")

	a, err := r.Open(nb, concat.All)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := r.Open(nb, concat.All); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("Expected ErrAlreadyOpen, got %v", err)
	}
	if got, ok := r.Get(nb.URI()); !ok || got != a {
		t.Error("Expected Get to return the open view")
	}

	if err := r.Close(nb.URI()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := r.Close(nb.URI()); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Expected ErrNotOpen, got %v", err)
	}
	if !a.IsClosed() {
		t.Error("Expected closed view to have a closed engine")
	}
}

func TestRegistry_ConcatDocument(t *testing.T) {
	r := NewRegistry(DefaultAccess)
	first := newTestNotebook("a")
	second := notebook.New("file:///work/other.ipynb", []notebook.CellData{{Kind: notebook.CellKindCode, Source: "b"}})
	loose := notebook.New("file:///work/loose.ipynb", []notebook.CellData{{Kind: notebook.CellKindCode, Source: "c"}})

	va, err := r.Open(first, concat.All)
	if err != nil {
		t.Fatal(err)
	}
	vb, err := r.Open(second, concat.All)
	if err != nil {
		t.Fatal(err)
	}

	if got := r.ConcatDocument(first.Cells()[0].Document()); got != va {
		t.Errorf("Expected first view, got %v", got)
	}
	if got := r.ConcatDocument(second.Cells()[0].Document()); got != vb {
		t.Errorf("Expected second view, got %v", got)
	}
	doc := loose.Cells()[0].Document()
	if got := r.ConcatDocument(doc); got != doc {
		t.Errorf("Expected unrelated document unchanged, got %v", got)
	}
	if _, ok := r.ViewOf(lsp.DocumentURI("file:///nowhere")); ok {
		t.Error("Expected no view for an unknown URI")
	}

	r.CloseAll()
	if r.Len() != 0 {
		t.Errorf("Expected no views after CloseAll, got %d", r.Len())
	}
}

func TestRegistry_CloseDropsNotebookObserver(t *testing.T) {
	r := NewRegistry(DefaultAccess)
	stale := newTestNotebook("a")
	if _, err := r.Open(stale, concat.All); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(stale.URI()); err != nil {
		t.Fatal(err)
	}

	// Same URI, new notebook instance, as after reopening the file.
	fresh := newTestNotebook("a")
	view, err := r.Open(fresh, concat.All)
	if err != nil {
		t.Fatal(err)
	}

	stale.Close()
	if got, ok := r.Get(fresh.URI()); !ok || got != view {
		t.Error("Expected closing the old notebook to leave the new view open")
	}
	if view.IsClosed() {
		t.Error("Expected new view engine to stay open")
	}
}

func TestRegistry_NotebookClose(t *testing.T) {
	r := NewRegistry(DefaultAccess)
	nb := newTestNotebook("a")
	if _, err := r.Open(nb, concat.All); err != nil {
		t.Fatal(err)
	}

	nb.Close()
	if r.Len() != 0 {
		t.Errorf("Expected view to be dropped when its notebook closes, got %d", r.Len())
	}
}
