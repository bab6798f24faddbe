// Package notebook models a multi-cell notebook document: an ordered list of
// cells, each with a stable identity and its own text buffer.
//
// # Cells
//
// Every cell gets a URI of the form <notebook-uri>#cell-<n> when it is
// created. The number is never reused within a notebook, so a cell keeps its
// identity across moves and edits, and a deleted-then-recreated cell is a new
// cell.
//
// Cell buffers hold LF-separated lines. Columns and offsets are measured in
// UTF-16 code units. A single trailing line feed in the source is treated as
// the cell terminator, which is how nbformat stores most cells, so
// "print(1)\n" is one line.
//
// # Changes
//
// Every mutation (InsertCells, RemoveCells, MoveCell, EditCell, Reload,
// MarkSaved, Close) emits exactly one Change to OnDidChange observers,
// however many cells it touched.
//
// # Files
//
// Open and Parse read nbformat 4 JSON. Reload takes freshly decoded Contents
// and diffs matched cells, so observers see minimal content changes rather
// than whole-cell replacements. Encode and Save write cell sources back into
// the original JSON, keeping outputs and metadata of matched cells.
package notebook
