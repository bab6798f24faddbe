package notebook

import (
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/notebookconcat/internal/lsp"
)

// Reload replaces the notebook contents with data, keeping the identity of
// cells that still exist. Cells are matched by nbformat id when present,
// otherwise by index and kind. Matched cells whose position changed are
// reported as moved. Text differences of matched cells are
// reported as content changes; the notebook is clean afterwards.
//
// Exactly one ChangeReload is emitted, even when nothing differs.
func (nb *Notebook) Reload(contents Contents) error {
	if nb.closed {
		return ErrClosed
	}
	if len(contents.Languages) > 0 {
		nb.languages = slices.Clone(contents.Languages)
	}

	old := nb.cells
	byID := make(map[string]*Cell)
	for _, c := range old {
		if c.id != "" {
			byID[c.id] = c
		}
	}

	matched := make(map[*Cell]bool, len(old))
	change := Change{Kind: ChangeReload, Notebook: nb}
	cells := make([]*Cell, 0, len(contents.Cells))

	for i, data := range contents.Cells {
		var c *Cell
		if data.ID != "" {
			if candidate, ok := byID[data.ID]; ok && !matched[candidate] && candidate.kind == data.Kind {
				c = candidate
			}
		} else if i < len(old) && !matched[old[i]] && old[i].id == "" && old[i].kind == data.Kind {
			c = old[i]
		}

		if c == nil {
			c = nb.newCell(data)
			change.Added = append(change.Added, c)
			cells = append(cells, c)
			continue
		}

		matched[c] = true
		if c.Index() != i {
			change.Moved = append(change.Moved, c)
		}
		if data.Language != "" {
			c.doc.languageID = data.Language
		}
		if changes := c.doc.diffTo(data.Source); len(changes) > 0 {
			change.Edited = append(change.Edited, c)
			change.Content = append(change.Content, DocumentChangeEvent{Document: c.doc, ContentChanges: changes})
		}
		c.doc.dirty = false
		cells = append(cells, c)
	}

	for _, c := range old {
		if !matched[c] {
			change.Removed = append(change.Removed, c)
		}
	}

	nb.cells = cells
	nb.dirty = false

	nb.logger.Debug("notebook reloaded", "notebook", nb.uri,
		"added", len(change.Added), "removed", len(change.Removed),
		"moved", len(change.Moved), "edited", len(change.Edited))
	nb.changed.Emit(change)
	return nil
}

// diffTo replaces the document text with source and returns the edits that
// turn the old text into the new one, last edit first so they can be applied
// in sequence.
func (d *Document) diffTo(source string) []ContentChange {
	text := normalizeSource(source)
	old := d.Text()
	if old == text {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(old, text, false))

	var changes []ContentChange
	var pending *ContentChange
	offset := 0 // UTF-16 offset into old

	flush := func() {
		if pending != nil {
			changes = append(changes, *pending)
			pending = nil
		}
	}

	for _, diff := range diffs {
		n := lsp.UTF16Len(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			offset += n
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &ContentChange{RangeOffset: offset}
			}
			pending.RangeLength += n
			offset += n
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &ContentChange{RangeOffset: offset}
			}
			pending.Text += diff.Text
		}
	}
	flush()

	for i := range changes {
		c := &changes[i]
		c.Range = lsp.Range{
			Start: d.PositionAt(c.RangeOffset),
			End:   d.PositionAt(c.RangeOffset + c.RangeLength),
		}
	}
	slices.Reverse(changes)

	d.lines = strings.Split(text, "\n")
	d.version++
	return changes
}
