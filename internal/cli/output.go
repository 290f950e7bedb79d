package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// stdout is where command results go.
var stdout io.Writer = os.Stdout

// printOut writes v in the selected format. text renders the human view; a
// nil text falls back to JSON.
func printOut(v any, text func(w io.Writer)) {
	switch formatFlag {
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			exitErr("encode yaml", err)
		}
		fmt.Fprint(stdout, string(b))
	case "text":
		if text != nil {
			text(stdout)
			return
		}
		fallthrough
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			exitErr("encode json", err)
		}
		fmt.Fprintln(stdout, string(b))
	}
}
