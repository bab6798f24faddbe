// Package config loads nbconcat settings.
//
// Settings come from three layers, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, usually ~/.config/nbconcat/config.toml
//  3. Environment variables (NBCONCAT_*)
//
// A missing file is not an error. A malformed file yields a *ParseError
// carrying the line and column reported by the TOML decoder.
//
// Example file:
//
//	[concat]
//	filename_template = "_NotebookConcat_{token}.py"
//	languages = ["python"]
//	include_markup = false
//
//	[log]
//	level = "debug"
//	file = "/tmp/nbconcat.log"
//	format = "json"
//
//	[watch]
//	debounce = "250ms"
package config
