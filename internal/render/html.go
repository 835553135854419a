package render

import (
	"strconv"
	"strings"
)

const (
	paragraphBreak = "</p><p>"
	lineBreak      = "<br>"
)

// HTML renders classified blocks. Blank lines are not emitted themselves; they
// only decide what separates the content lines around them.
func HTML(blocks []Block) string {
	var b strings.Builder
	b.WriteString("<p>")

	prev := -1
	for i, blk := range blocks {
		if blk.Kind == KindBlank {
			continue
		}
		newlines := i
		if prev >= 0 {
			newlines = i - prev
		}
		writeSeparator(&b, kindAt(blocks, prev), blk.Kind, newlines)
		writeBlock(&b, blk)
		prev = i
	}

	newlines := len(blocks) - 1
	if prev >= 0 {
		newlines = len(blocks) - 1 - prev
	}
	writeSeparator(&b, kindAt(blocks, prev), KindBlank, newlines)

	b.WriteString("</p>")
	return b.String()
}

func kindAt(blocks []Block, i int) Kind {
	if i < 0 {
		return KindBlank
	}
	return blocks[i].Kind
}

// writeSeparator emits what stands between two content lines given the number
// of newlines between them. Nothing precedes a list item, and a list item
// swallows its own line terminator.
func writeSeparator(b *strings.Builder, prev, next Kind, newlines int) {
	if next == KindItem {
		return
	}
	if prev == KindItem {
		newlines--
	}
	for ; newlines >= 2; newlines -= 2 {
		b.WriteString(paragraphBreak)
	}
	if newlines == 1 {
		b.WriteString(lineBreak)
	}
}

func writeBlock(b *strings.Builder, blk Block) {
	switch blk.Kind {
	case KindHeading:
		tag := "h" + strconv.Itoa(blk.Level)
		b.WriteString("<" + tag + ">")
		writeInline(b, blk.Text)
		b.WriteString("</" + tag + ">")
	case KindItem:
		b.WriteString("<li>")
		writeInline(b, blk.Text)
		b.WriteString("</li>")
	default:
		writeInline(b, blk.Text)
	}
}

// writeInline rewrites **bold** pairs left to right, shortest match first.
func writeInline(b *strings.Builder, text string) {
	for {
		open := strings.Index(text, "**")
		if open < 0 {
			break
		}
		end := strings.Index(text[open+2:], "**")
		if end < 0 {
			break
		}
		b.WriteString(text[:open])
		b.WriteString("<strong>")
		b.WriteString(text[open+2 : open+2+end])
		b.WriteString("</strong>")
		text = text[open+2+end+2:]
	}
	b.WriteString(text)
}
