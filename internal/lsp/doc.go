// Package lsp defines the Language Server Protocol value types shared by the
// notebook, concatenation and adapter packages.
//
// Positions use zero-based lines and UTF-16 code unit columns, matching what
// editors and language servers exchange on the wire. Ranges embedded in
// payloads (hover results, completion edits) are plain values so that the
// adapter can rewrite them between cell-local and concatenated coordinates.
//
// # Tagged unions
//
// Two LSP payloads come in more than one shape:
//
//   - CompletionEdit is either a single replacement range or an
//     inserting/replacing range pair, selected by its Kind.
//   - Completions is either a bare []CompletionItem or a CompletionList.
//
// Both decide their shape once when decoded from JSON; callers switch on the
// discriminant instead of probing fields.
package lsp
