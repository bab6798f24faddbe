// Package concatview presents a notebook as one contiguous text document.
//
// An Adapter delegates position arithmetic to an Engine (normally a
// *concat.Document) and resolves cell-specific queries, such as line content
// and word boundaries, against the owning cell's own document. It also
// translates positions, ranges, offsets and structured results between the
// concatenated view and individual cells, so a language service can work on
// the whole notebook as a single file.
//
// Each Adapter has a synthetic path next to the notebook, built from a
// filename template and a random token. The path is never written to.
//
// Two conditions are treated as programming errors and panic with a
// *FatalError: calling Save, and the engine resolving a position to a cell
// the notebook does not have.
package concatview
