package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"textlens/internal/render"
)

const (
	formatHTML = "html"
	formatANSI = "ansi"
	formatRaw  = "raw"
)

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q (valid options: %s)", format, strings.Join(allowed, ", "))
}

// writeMarkdown prints md in the requested format: the overlay HTML, a
// terminal rendering, or the text as returned by the model.
func writeMarkdown(w io.Writer, format, md string) error {
	var out string
	switch format {
	case formatHTML:
		out = render.Render(md) + "\n"
	case formatRaw:
		out = md + "\n"
	case formatANSI:
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dracula"),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		out, err = r.Render(md)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
	default:
		return fmt.Errorf("invalid format %q", format)
	}
	_, err := io.WriteString(w, out)
	return err
}

func readInput(r io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
