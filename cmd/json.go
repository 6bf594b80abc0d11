package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// encodeJSON writes v as indented JSON to w, exiting with an error message
// on failure.
func encodeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
