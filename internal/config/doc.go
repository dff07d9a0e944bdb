// Package config loads linebuf configuration from TOML or YAML files.
//
// A configuration has three sections:
//
//	[engine]
//	tab_width = 4
//	max_undo_entries = 1000
//	large_file_threshold = 10485760
//	styles = true
//
//	[log]
//	level = "info"
//	output = "stderr"
//
//	[[syntax]]
//	name = "go"
//	extensions = [".go"]
//
//	  [[syntax.rules]]
//	  kind = "single"
//	  pattern = "\\b(func|return|if|else)\\b"
//	  fg = "yellow"
//
// The format is chosen from the file extension: .toml, .yaml or .yml.
// Environment variables prefixed with LINEBUF_ override file values.
//
// A Watcher reloads the file when it changes on disk.
package config
