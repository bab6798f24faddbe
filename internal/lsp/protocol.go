package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// DocumentURI represents a URI as used in LSP.
// Notebook files use file:// URIs; cells append a fragment.
type DocumentURI string

// Position in a text document expressed as zero-based line and character offset.
// Character offset is measured in UTF-16 code units per the LSP specification.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range in a text document expressed as start and end positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location represents a location inside a resource.
// For notebooks the URI names a cell and the range is cell-local.
type Location struct {
	URI   DocumentURI `json:"uri"`
	Range Range       `json:"range"`
}

// TextEdit represents a textual edit applicable to a text document.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// EndOfLine identifies the line ending sequence of a document.
type EndOfLine int

const (
	// EndOfLineLF is the line feed \n.
	EndOfLineLF EndOfLine = 1
	// EndOfLineCRLF is the carriage return line feed \r\n.
	EndOfLineCRLF EndOfLine = 2
)

// String returns the line ending sequence.
func (e EndOfLine) String() string {
	if e == EndOfLineCRLF {
		return "\r\n"
	}
	return "\n"
}

// MarkupContent represents human readable text.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// MarkupKind describes the content type of MarkupContent.
type MarkupKind string

// Markup kinds.
const (
	MarkupKindPlainText MarkupKind = "plaintext"
	MarkupKindMarkdown  MarkupKind = "markdown"
)

// Command represents a reference to a command.
type Command struct {
	Title     string `json:"title"`
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

// --- Hover ---

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// --- Completion ---

// CompletionItemKind is the kind of a completion entry.
type CompletionItemKind int

// Completion item kinds used by notebook kernels.
const (
	CompletionItemKindText     CompletionItemKind = 1
	CompletionItemKindMethod   CompletionItemKind = 2
	CompletionItemKindFunction CompletionItemKind = 3
	CompletionItemKindField    CompletionItemKind = 5
	CompletionItemKindVariable CompletionItemKind = 6
	CompletionItemKindClass    CompletionItemKind = 7
	CompletionItemKindModule   CompletionItemKind = 9
	CompletionItemKindProperty CompletionItemKind = 10
	CompletionItemKindKeyword  CompletionItemKind = 14
	CompletionItemKindSnippet  CompletionItemKind = 15
	CompletionItemKindFile     CompletionItemKind = 17
	CompletionItemKindConstant CompletionItemKind = 21
)

// InsertTextFormat defines whether the insert text is plain text or a snippet.
type InsertTextFormat int

// Insert text formats.
const (
	InsertTextFormatPlainText InsertTextFormat = 1
	InsertTextFormatSnippet   InsertTextFormat = 2
)

// CompletionEditKind discriminates the two shapes of a completion edit.
type CompletionEditKind int

const (
	// CompletionEditRange is a single replacement range.
	CompletionEditRange CompletionEditKind = iota
	// CompletionEditInsertReplace carries separate inserting and replacing ranges.
	CompletionEditInsertReplace
)

// CompletionEdit is the edit applied when a completion item is accepted.
// Kind selects which of Range or Insert/Replace is meaningful.
type CompletionEdit struct {
	Kind    CompletionEditKind
	NewText string
	Range   Range
	Insert  Range
	Replace Range
}

// NewRangeEdit returns a single-range completion edit.
func NewRangeEdit(rng Range, newText string) *CompletionEdit {
	return &CompletionEdit{Kind: CompletionEditRange, Range: rng, NewText: newText}
}

// NewInsertReplaceEdit returns a completion edit with inserting and replacing ranges.
func NewInsertReplaceEdit(insert, replace Range, newText string) *CompletionEdit {
	return &CompletionEdit{Kind: CompletionEditInsertReplace, Insert: insert, Replace: replace, NewText: newText}
}

type rangeEditJSON struct {
	NewText string `json:"newText"`
	Range   Range  `json:"range"`
}

type insertReplaceEditJSON struct {
	NewText string `json:"newText"`
	Insert  Range  `json:"insert"`
	Replace Range  `json:"replace"`
}

// MarshalJSON encodes the edit as a TextEdit or an InsertReplaceEdit.
func (e CompletionEdit) MarshalJSON() ([]byte, error) {
	if e.Kind == CompletionEditInsertReplace {
		return json.Marshal(insertReplaceEditJSON{NewText: e.NewText, Insert: e.Insert, Replace: e.Replace})
	}
	return json.Marshal(rangeEditJSON{NewText: e.NewText, Range: e.Range})
}

// UnmarshalJSON decodes either wire shape, choosing the kind by the presence
// of an "insert" member.
func (e *CompletionEdit) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe["insert"]; ok {
		var ir insertReplaceEditJSON
		if err := json.Unmarshal(data, &ir); err != nil {
			return err
		}
		*e = CompletionEdit{Kind: CompletionEditInsertReplace, NewText: ir.NewText, Insert: ir.Insert, Replace: ir.Replace}
		return nil
	}
	var re rangeEditJSON
	if err := json.Unmarshal(data, &re); err != nil {
		return err
	}
	*e = CompletionEdit{Kind: CompletionEditRange, NewText: re.NewText, Range: re.Range}
	return nil
}

// CompletionItem represents a completion item.
type CompletionItem struct {
	Label               string             `json:"label"`
	Kind                CompletionItemKind `json:"kind,omitempty"`
	Detail              string             `json:"detail,omitempty"`
	Documentation       any                `json:"documentation,omitempty"` // string or MarkupContent
	SortText            string             `json:"sortText,omitempty"`
	FilterText          string             `json:"filterText,omitempty"`
	InsertText          string             `json:"insertText,omitempty"`
	InsertTextFormat    InsertTextFormat   `json:"insertTextFormat,omitempty"`
	TextEdit            *CompletionEdit    `json:"textEdit,omitempty"`
	AdditionalTextEdits []TextEdit         `json:"additionalTextEdits,omitempty"`
	CommitCharacters    []string           `json:"commitCharacters,omitempty"`
	Command             *Command           `json:"command,omitempty"`
	Data                any                `json:"data,omitempty"`
}

// CompletionItemDefaults carries values shared by every item of a list.
type CompletionItemDefaults struct {
	CommitCharacters []string         `json:"commitCharacters,omitempty"`
	InsertTextFormat InsertTextFormat `json:"insertTextFormat,omitempty"`
	Data             any              `json:"data,omitempty"`
}

// CompletionList represents a collection of completion items with metadata.
type CompletionList struct {
	IsIncomplete bool                    `json:"isIncomplete"`
	ItemDefaults *CompletionItemDefaults `json:"itemDefaults,omitempty"`
	Items        []CompletionItem        `json:"items"`
}

// Completions is a completion result: either a bare item slice or a
// CompletionList. List is non-nil exactly when the result is wrapped.
type Completions struct {
	Items []CompletionItem
	List  *CompletionList
}

// CompletionsFromItems wraps a bare item slice.
func CompletionsFromItems(items []CompletionItem) Completions {
	return Completions{Items: items}
}

// CompletionsFromList wraps a completion list.
func CompletionsFromList(list *CompletionList) Completions {
	return Completions{List: list}
}

// IsList reports whether the result carries list metadata.
func (c Completions) IsList() bool {
	return c.List != nil
}

// AllItems returns the items regardless of shape.
func (c Completions) AllItems() []CompletionItem {
	if c.List != nil {
		return c.List.Items
	}
	return c.Items
}

// MarshalJSON encodes the result in whichever shape it holds.
func (c Completions) MarshalJSON() ([]byte, error) {
	if c.List != nil {
		return json.Marshal(c.List)
	}
	if c.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Items)
}

// UnmarshalJSON decodes a completion response which may be a list or array.
func (c *Completions) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Completions{}
		return nil
	}

	if trimmed[0] == '[' {
		var items []CompletionItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("parsing completion items: %w", err)
		}
		*c = Completions{Items: items}
		return nil
	}

	var list CompletionList
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return fmt.Errorf("parsing completion list: %w", err)
	}
	*c = Completions{List: &list}
	return nil
}

// --- URI helpers ---

// FilePathToURI converts a file path to a DocumentURI.
func FilePathToURI(path string) DocumentURI {
	if path == "" {
		return ""
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	path = filepath.ToSlash(path)

	// On Windows, add extra slash for drive letter
	if runtime.GOOS == "windows" && len(path) >= 2 && path[1] == ':' {
		path = "/" + path
	}

	u := &url.URL{
		Scheme: "file",
		Path:   path,
	}

	return DocumentURI(u.String())
}

// URIToFilePath converts a DocumentURI to a file path.
// Fragments (cell handles) are dropped.
func URIToFilePath(uri DocumentURI) string {
	if uri == "" {
		return ""
	}

	u, err := url.Parse(string(uri))
	if err != nil {
		return string(uri)
	}

	if u.Scheme != "file" {
		return string(uri)
	}

	path := u.Path

	// On Windows, remove leading slash before drive letter
	if runtime.GOOS == "windows" && len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path)
}

// WithFragment returns uri with its fragment replaced.
func WithFragment(uri DocumentURI, fragment string) DocumentURI {
	base, _, _ := strings.Cut(string(uri), "#")
	if fragment == "" {
		return DocumentURI(base)
	}
	return DocumentURI(base + "#" + fragment)
}

// DetectLanguageID returns the language identifier for a kernel or file
// extension name, defaulting to "plaintext".
func DetectLanguageID(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, "."))

	switch name {
	case "python", "py", "python3", "ipython", "ipython3":
		return "python"
	case "r":
		return "r"
	case "julia", "jl":
		return "julia"
	case "scala":
		return "scala"
	case "go", "golang":
		return "go"
	case "javascript", "js", "node":
		return "javascript"
	case "typescript", "ts":
		return "typescript"
	case "sql":
		return "sql"
	case "markdown", "md":
		return "markdown"
	case "bash", "sh", "shell":
		return "shellscript"
	case "":
		return "plaintext"
	default:
		return name
	}
}
