package concatview

import (
	"github.com/dshills/notebookconcat/internal/lsp"
	"github.com/dshills/notebookconcat/internal/notebook"
)

// ToOutgoingPosition converts a position in cell to concatenated space.
func (a *Adapter) ToOutgoingPosition(cell notebook.TextDocument, pos lsp.Position) lsp.Position {
	return a.engine.PositionAtLocation(lsp.Location{
		URI:   cell.URI(),
		Range: lsp.Range{Start: pos, End: pos},
	})
}

// ToOutgoingRange converts a range in cell to concatenated space. Start and
// end are converted independently.
func (a *Adapter) ToOutgoingRange(cell notebook.TextDocument, rng lsp.Range) lsp.Range {
	return lsp.Range{
		Start: a.ToOutgoingPosition(cell, rng.Start),
		End:   a.ToOutgoingPosition(cell, rng.End),
	}
}

// ToOutgoingOffset converts a UTF-16 offset in cell to a concatenated offset.
func (a *Adapter) ToOutgoingOffset(cell notebook.TextDocument, offset int) int {
	pos := a.ToOutgoingPosition(cell, cell.PositionAt(offset))
	return a.engine.OffsetAt(pos)
}

// ToOutgoingChangeEvent rewrites a cell change event into concatenated
// space. Text and RangeLength are kept as they are.
func (a *Adapter) ToOutgoingChangeEvent(ev notebook.DocumentChangeEvent) notebook.DocumentChangeEvent {
	changes := make([]notebook.ContentChange, len(ev.ContentChanges))
	for i, c := range ev.ContentChanges {
		changes[i] = notebook.ContentChange{
			Range:       a.ToOutgoingRange(ev.Document, c.Range),
			RangeOffset: a.ToOutgoingOffset(ev.Document, c.RangeOffset),
			RangeLength: c.RangeLength,
			Text:        c.Text,
		}
	}
	return notebook.DocumentChangeEvent{
		Document:       a.GetConcatDocument(ev.Document),
		ContentChanges: changes,
	}
}

// ToIncomingRange converts a concatenated range to cell-local coordinates.
// Start and end are resolved independently, so a range spanning cells keeps
// the start cell's start and the end cell's end.
func (a *Adapter) ToIncomingRange(rng lsp.Range) lsp.Range {
	start := a.engine.LocationAt(rng.Start)
	end := a.engine.LocationAt(rng.End)
	return lsp.Range{Start: start.Range.Start, End: end.Range.End}
}

// ToIncomingHover rewrites the range of a hover result. A nil hover or one
// without a range is returned as is.
func (a *Adapter) ToIncomingHover(_ notebook.TextDocument, hover *lsp.Hover) *lsp.Hover {
	if hover == nil || hover.Range == nil {
		return hover
	}
	rng := a.ToIncomingRange(*hover.Range)
	return &lsp.Hover{Contents: hover.Contents, Range: &rng}
}

// ToIncomingCompletions rewrites every item of a completion result, keeping
// its shape and any list metadata.
func (a *Adapter) ToIncomingCompletions(_ notebook.TextDocument, completions lsp.Completions) lsp.Completions {
	if completions.IsList() {
		list := *completions.List
		list.Items = a.toIncomingItems(list.Items)
		return lsp.CompletionsFromList(&list)
	}
	if completions.Items == nil {
		return completions
	}
	return lsp.CompletionsFromItems(a.toIncomingItems(completions.Items))
}

func (a *Adapter) toIncomingItems(items []lsp.CompletionItem) []lsp.CompletionItem {
	if items == nil {
		return nil
	}
	out := make([]lsp.CompletionItem, len(items))
	for i, item := range items {
		out[i] = a.ToIncomingCompletion(item)
	}
	return out
}

// ToIncomingCompletion rewrites the edit ranges of one completion item.
func (a *Adapter) ToIncomingCompletion(item lsp.CompletionItem) lsp.CompletionItem {
	if item.TextEdit == nil {
		return item
	}

	edit := *item.TextEdit
	switch edit.Kind {
	case lsp.CompletionEditInsertReplace:
		edit.Insert = a.ToIncomingRange(edit.Insert)
		edit.Replace = a.ToIncomingRange(edit.Replace)
	default:
		edit.Range = a.ToIncomingRange(edit.Range)
	}
	item.TextEdit = &edit
	return item
}
