// Package concat joins the cells of a notebook into one logical text stream
// and converts coordinates between that stream and individual cells.
//
// Selected cells are joined by a single LF, so the concatenated line count is
// the sum of the selected cells' line counts. Every query reads the notebook's
// current cells; there is no cached layout to invalidate.
package concat
