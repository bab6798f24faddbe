package notebook

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const emptyNotebook = `{"cells":[],"metadata":{},"nbformat":4,"nbformat_minor":5}`

var (
	newCodeCell     = []byte(`{"cell_type":"code","execution_count":null,"metadata":{},"outputs":[],"source":[]}`)
	newMarkdownCell = []byte(`{"cell_type":"markdown","metadata":{},"source":[]}`)
	newRawCell      = []byte(`{"cell_type":"raw","metadata":{},"source":[]}`)
)

// Encode writes the cells of nb into base, an nbformat document, and returns
// the result indented the way Jupyter writes files. Everything in base other
// than cell sources is kept: a cell matched by id, or by index and type when
// it has none, keeps its outputs and metadata. An empty base starts from a
// blank notebook.
func Encode(nb *Notebook, base []byte) ([]byte, error) {
	if len(bytes.TrimSpace(base)) == 0 {
		base = []byte(emptyNotebook)
	}
	if !gjson.ValidBytes(base) {
		return nil, &ParseError{Path: nb.Path(), Message: "malformed JSON", Err: ErrInvalidNotebook}
	}

	old := gjson.GetBytes(base, "cells").Array()
	byID := make(map[string]gjson.Result, len(old))
	for _, c := range old {
		if id := c.Get("id").String(); id != "" {
			byID[id] = c
		}
	}

	cells := []byte("[]")
	for i, c := range nb.cells {
		typ := cellType(c)

		var prev gjson.Result
		if match, ok := byID[c.id]; ok && c.id != "" {
			prev = match
		} else if c.id == "" && i < len(old) && !old[i].Get("id").Exists() && old[i].Get("cell_type").String() == typ {
			prev = old[i]
		}

		raw := blankCell(typ)
		trailing := false
		if prev.Exists() {
			raw = []byte(prev.Raw)
			trailing = strings.HasSuffix(joinSource(prev.Get("source")), "\n")
		}

		var err error
		if raw, err = sjson.SetBytes(raw, "source", sourceLines(c.doc.Text(), trailing)); err != nil {
			return nil, fmt.Errorf("encoding cell %d: %w", i, err)
		}
		if c.id != "" {
			if raw, err = sjson.SetBytes(raw, "id", c.id); err != nil {
				return nil, fmt.Errorf("encoding cell %d: %w", i, err)
			}
		}
		if cells, err = sjson.SetRawBytes(cells, "-1", raw); err != nil {
			return nil, fmt.Errorf("encoding cell %d: %w", i, err)
		}
	}

	out, err := sjson.SetRawBytes(base, "cells", cells)
	if err != nil {
		return nil, fmt.Errorf("encoding cells: %w", err)
	}
	return pretty.PrettyOptions(out, &pretty.Options{Width: 80, Indent: " "}), nil
}

// Save encodes nb over the file at path, creating it when missing, and marks
// the notebook saved.
func Save(nb *Notebook, path string) error {
	if nb.closed {
		return ErrClosed
	}

	base, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading notebook %s: %w", path, err)
	}
	data, err := Encode(nb, base)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing notebook %s: %w", path, err)
	}

	nb.logger.Debug("notebook saved", "path", path, "cells", len(nb.cells))
	nb.MarkSaved()
	return nil
}

func cellType(c *Cell) string {
	switch {
	case c.kind == CellKindMarkup:
		return "markdown"
	case c.Language() == "raw":
		return "raw"
	default:
		return "code"
	}
}

// blankCell returns a copy of the template for typ; sjson may write into it.
func blankCell(typ string) []byte {
	switch typ {
	case "markdown":
		return bytes.Clone(newMarkdownCell)
	case "raw":
		return bytes.Clone(newRawCell)
	default:
		return bytes.Clone(newCodeCell)
	}
}

// joinSource flattens an nbformat source, which is a string or a list of lines.
func joinSource(source gjson.Result) string {
	if !source.IsArray() {
		return source.String()
	}
	var sb strings.Builder
	for _, part := range source.Array() {
		sb.WriteString(part.String())
	}
	return sb.String()
}

// sourceLines splits text into nbformat source lines, each keeping its LF.
func sourceLines(text string, trailingNewline bool) []string {
	if trailingNewline {
		text += "\n"
	}
	if text == "" {
		return []string{}
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
