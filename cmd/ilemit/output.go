package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hokaccha/go-prettyjson"

	"github.com/deepnoodle-ai/ilemit/dis"
	"github.com/deepnoodle-ai/ilemit/il"
)

// writeModule renders an emitted module in the requested format.
func writeModule(w io.Writer, mod *il.Module, format string, useColor bool) error {
	printer := dis.NewPrinter(useColor)
	switch format {
	case "", "text":
		for i, b := range mod.Bodies() {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := printer.Listing(b, w); err != nil {
				return err
			}
		}
		return nil
	case "json":
		data, err := il.MarshalModule(mod)
		if err != nil {
			return err
		}
		out, err := formatJSON(data, !useColor)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "hex":
		for _, b := range mod.Bodies() {
			code, err := il.Encode(b)
			if err != nil {
				return fmt.Errorf("%s: %w", b.Name(), err)
			}
			fmt.Fprintf(w, "%s %s\n", b.Name(), hex.EncodeToString(code))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func formatJSON(data []byte, noColor bool) ([]byte, error) {
	if noColor {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return prettyjson.Format(data)
}
