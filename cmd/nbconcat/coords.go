package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/notebookconcat/internal/lsp"
)

// parsePosition parses "line:char" with zero-based numbers.
func parsePosition(s string) (lsp.Position, error) {
	lineStr, charStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return lsp.Position{}, fmt.Errorf("invalid position %q: want line:char", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 0 {
		return lsp.Position{}, fmt.Errorf("invalid line in %q", s)
	}
	char, err := strconv.Atoi(charStr)
	if err != nil || char < 0 {
		return lsp.Position{}, fmt.Errorf("invalid character in %q", s)
	}
	return lsp.Position{Line: line, Character: char}, nil
}

// parseRange parses "line:char-line:char".
func parseRange(s string) (lsp.Range, error) {
	startStr, endStr, ok := strings.Cut(s, "-")
	if !ok {
		return lsp.Range{}, fmt.Errorf("invalid range %q: want line:char-line:char", s)
	}
	start, err := parsePosition(startStr)
	if err != nil {
		return lsp.Range{}, err
	}
	end, err := parsePosition(endStr)
	if err != nil {
		return lsp.Range{}, err
	}
	return lsp.Range{Start: start, End: end}, nil
}

func formatPosition(p lsp.Position) string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

func formatRange(r lsp.Range) string {
	return formatPosition(r.Start) + "-" + formatPosition(r.End)
}
