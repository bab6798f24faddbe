package notebook

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/dshills/notebookconcat/internal/lsp"
)

// Contents is the decoded cell content of an nbformat file.
type Contents struct {
	Languages []string
	Cells     []CellData
}

// Decode reads nbformat 4 JSON. source names the input in errors.
func Decode(source string, data []byte) (Contents, error) {
	if !gjson.ValidBytes(data) {
		return Contents{}, &ParseError{Path: source, Message: "malformed JSON", Err: ErrInvalidNotebook}
	}

	root := gjson.ParseBytes(data)
	cells := root.Get("cells")
	if !cells.IsArray() {
		return Contents{}, &ParseError{Path: source, Message: "missing cells array", Err: ErrInvalidNotebook}
	}

	var contents Contents
	language := root.Get("metadata.language_info.name").String()
	if language == "" {
		language = root.Get("metadata.kernelspec.language").String()
	}
	if language != "" {
		contents.Languages = []string{lsp.DetectLanguageID(language)}
	}

	for i, cell := range cells.Array() {
		data, err := decodeCell(cell, contents.Languages)
		if err != nil {
			return Contents{}, &ParseError{Path: source, Message: fmt.Sprintf("cell %d: %v", i, err), Err: ErrInvalidNotebook}
		}
		contents.Cells = append(contents.Cells, data)
	}
	return contents, nil
}

func decodeCell(cell gjson.Result, languages []string) (CellData, error) {
	var data CellData
	data.ID = cell.Get("id").String()

	switch cellType := cell.Get("cell_type").String(); cellType {
	case "code":
		data.Kind = CellKindCode
		if len(languages) > 0 {
			data.Language = languages[0]
		}
	case "markdown":
		data.Kind = CellKindMarkup
		data.Language = "markdown"
	case "raw":
		data.Kind = CellKindCode
		data.Language = "raw"
	default:
		return CellData{}, fmt.Errorf("unknown cell_type %q", cellType)
	}

	// VS Code records per-cell language overrides here.
	if lang := cell.Get("metadata.vscode.languageId").String(); lang != "" {
		data.Language = lang
	}

	data.Source = joinSource(cell.Get("source"))
	return data, nil
}

// Parse decodes an nbformat file into a notebook identified by uri.
func Parse(uri lsp.DocumentURI, data []byte, opts ...Option) (*Notebook, error) {
	contents, err := Decode(string(uri), data)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithLanguages(contents.Languages...)}, opts...)
	return New(uri, contents.Cells, opts...), nil
}

// Open reads and parses the notebook file at path.
func Open(path string, opts ...Option) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading notebook %s: %w", path, err)
	}
	return Parse(lsp.FilePathToURI(path), data, opts...)
}
