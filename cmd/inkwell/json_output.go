package main

import (
	"encoding/json"
	"io"
)

// writeJSON emits v as indented JSON, for scripting against the CLI.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
