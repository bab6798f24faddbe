package concatview

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultFilenameTemplate names the synthetic file of a concatenated view.
const DefaultFilenameTemplate = "_NotebookConcat_{token}.py"

// TokenPlaceholder is replaced by the random token in a filename template.
const TokenPlaceholder = "{token}"

// TokenSource produces the random token embedded in a synthetic path.
type TokenSource func() string

// NewToken returns 32 lowercase hex characters from a random UUID.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SyntheticPath places template, with its token substituted, in dir.
func SyntheticPath(dir, template, token string) string {
	return filepath.Join(dir, strings.ReplaceAll(template, TokenPlaceholder, token))
}
