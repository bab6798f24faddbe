package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/notebookconcat/internal/concatview"
	"github.com/dshills/notebookconcat/internal/config"
	"github.com/dshills/notebookconcat/internal/logger"
	"github.com/dshills/notebookconcat/internal/lsp"
)

const testNotebook = `{
  "cells": [
    {"cell_type": "markdown", "id": "md", "metadata": {}, "source": ["# Title\n", "Some prose"]},
    {"cell_type": "code", "id": "load", "metadata": {}, "outputs": [], "source": ["import os\n", "print(os.getcwd())\n"]},
    {"cell_type": "code", "id": "q", "metadata": {"vscode": {"languageId": "sql"}}, "outputs": [], "source": "SELECT %d"}
  ],
  "metadata": {"language_info": {"name": "python"}},
  "nbformat": 4,
  "nbformat_minor": 5
}`

func writeNotebook(t *testing.T, dir string, n int) string {
	t.Helper()
	path := filepath.Join(dir, "analysis.ipynb")
	data := strings.Replace(testNotebook, "%d", string(rune('0'+n)), 1)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestText(t *testing.T) {
	path := writeNotebook(t, t.TempDir(), 1)

	out, err := execute(t, "text", path)
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}
	want := "import os\nprint(os.getcwd())\nSELECT 1\n"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}

	out, err = execute(t, "text", "--range", "1:0-1:5", path)
	if err != nil {
		t.Fatalf("text --range failed: %v", err)
	}
	if out != "print\n" {
		t.Errorf("Expected %q, got %q", "print\n", out)
	}

	if _, err := execute(t, "text", "--range", "1:0", path); err == nil {
		t.Error("Expected error for malformed range")
	}
}

func TestLocate(t *testing.T) {
	path := writeNotebook(t, t.TempDir(), 1)

	out, err := execute(t, "locate", path, "1:2")
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	for _, want := range []string{
		"position: 1:2",
		"offset:   12",
		"cell:     1 (code, python)",
		"local:    1:2",
		"line:     print(os.getcwd())",
		"word:     print [1:0-1:5]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestOutgoing(t *testing.T) {
	path := writeNotebook(t, t.TempDir(), 1)

	out, err := execute(t, "outgoing", path, "2", "0:3")
	if err != nil {
		t.Fatalf("outgoing failed: %v", err)
	}
	if !strings.Contains(out, "position: 2:3") || !strings.Contains(out, "offset:   32") {
		t.Errorf("Unexpected output:\n%s", out)
	}

	if _, err := execute(t, "outgoing", path, "0", "0:0"); err == nil {
		t.Error("Expected error for a markdown cell outside the view")
	}
	if _, err := execute(t, "outgoing", path, "9", "0:0"); err == nil {
		t.Error("Expected error for a missing cell")
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, 1)

	out, err := execute(t, "info", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{
		"view:     " + filepath.Join(dir, "_NotebookConcat_"),
		"language: python",
		"lines:    3",
		"version:  1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestEdit(t *testing.T) {
	path := writeNotebook(t, t.TempDir(), 1)

	out, err := execute(t, "edit", path, "2:7-2:8", "42")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	for _, want := range []string{"cell:    2", "local:   0:7-0:8", "range:   2:7-2:8", "version: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}

	out, err = execute(t, "text", path)
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}
	if !strings.HasSuffix(out, "SELECT 42\n") {
		t.Errorf("Expected saved edit, got %q", out)
	}

	if _, err := execute(t, "edit", path, "1:0-2:3", "x"); err == nil {
		t.Error("Expected error for a range spanning cells")
	}
}

func TestConfigErrors(t *testing.T) {
	path := writeNotebook(t, t.TempDir(), 1)

	if _, err := execute(t, "--log-level", "chatty", "info", path); err == nil {
		t.Error("Expected error for unknown log level")
	}
	if _, err := execute(t, "info", filepath.Join(t.TempDir(), "missing.ipynb")); err == nil {
		t.Error("Expected error for missing notebook")
	}
}

func TestReloader(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, 1)

	c := &cli{cfg: config.Default(), log: logger.Discard(), views: concatview.NewRegistry(concatview.DefaultAccess)}
	nb, view, err := c.open(path)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	r := &reloader{nb: nb, view: view, out: &out, log: c.log}
	nb.OnDidChange(r.report)

	writeNotebook(t, dir, 2)
	if err := r.reload(path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if view.Version() != 2 {
		t.Errorf("Expected version 2, got %d", view.Version())
	}
	if got := view.GetText(nil); !strings.HasSuffix(got, "SELECT 2") {
		t.Errorf("Expected reloaded text, got %q", got)
	}
	if want := `edit 2:7-2:8 @36 -1 "2"`; !strings.Contains(out.String(), want) {
		t.Errorf("Expected %q in output, got %q", want, out.String())
	}
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		in      string
		want    lsp.Position
		wantErr bool
	}{
		{"0:0", lsp.Position{}, false},
		{" 12:7 ", lsp.Position{Line: 12, Character: 7}, false},
		{"3", lsp.Position{}, true},
		{"a:1", lsp.Position{}, true},
		{"1:-2", lsp.Position{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePosition(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	rng, err := parseRange("1:2-3:4")
	if err != nil || formatRange(rng) != "1:2-3:4" {
		t.Errorf("Expected 1:2-3:4, got %v (%v)", rng, err)
	}
}
