package render

import (
	"strings"
)

// Kind classifies a single source line.
type Kind int

const (
	KindBlank Kind = iota
	KindText
	KindHeading
	KindItem
)

// Block is one classified line of markdown input.
type Block struct {
	Kind  Kind
	Level int // heading level, 1-3
	Text  string
}

const maxHeadingLevel = 3

// Render converts the supported markdown subset (headings, bold, flat lists,
// paragraphs, line breaks) into an HTML fragment wrapped in one paragraph.
// It never fails; anything it does not recognize passes through as text.
func Render(src string) string {
	return HTML(Parse(src))
}

// Parse splits src into lines and classifies each one.
func Parse(src string) []Block {
	lines := strings.Split(src, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, classify(line))
	}
	return blocks
}

// classify treats only empty lines as blank; whitespace is content.
func classify(line string) Block {
	if line == "" {
		return Block{Kind: KindBlank}
	}
	if level, text, ok := heading(line); ok {
		return Block{Kind: KindHeading, Level: level, Text: text}
	}
	if text, ok := listItem(line); ok {
		return Block{Kind: KindItem, Text: text}
	}
	return Block{Kind: KindText, Text: line}
}

// heading matches "# x", "## x" and "### x" anchored at the line start.
func heading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > maxHeadingLevel {
		return 0, "", false
	}
	if level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, line[level+1:], true
}

// listItem matches optional indentation followed by "-" or "<digits>.".
func listItem(line string) (string, bool) {
	rest := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(rest, "-"):
		rest = rest[1:]
	case len(rest) > 0 && isDigit(rest[0]):
		i := 0
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
		if i == len(rest) || rest[i] != '.' {
			return "", false
		}
		rest = rest[i+1:]
	default:
		return "", false
	}
	return strings.TrimLeft(rest, " \t"), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
