package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	FormatJSON = "json"
	FormatEDN  = "edn"
	FormatText = "text"
)

// Formats lists the accepted --format values.
func Formats() []string { return []string{FormatJSON, FormatEDN, FormatText} }

// Write writes v in the requested format. An empty format means json.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return WriteJSON(w, v, pretty)
	case FormatEDN:
		return WriteEDN(w, v, pretty)
	case FormatText:
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s (expected %s)", format, strings.Join(Formats(), "|"))
	}
}

// WriteJSON writes one JSON document followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
