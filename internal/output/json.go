package output

import (
	"bytes"
	"encoding/json"
	"io"
)

// WriteJSON writes v indented with a trailing newline in a single write, so a
// failed encode leaves w untouched. json.RawMessage values keep their key
// order and content; only whitespace changes. HTML characters are not
// escaped because storage-format bodies are full of them.
func WriteJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
