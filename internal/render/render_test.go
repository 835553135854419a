package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "<p></p>"},
		{"plain text", "Hi there.", "<p>Hi there.</p>"},
		{"h1", "# Title", "<p><h1>Title</h1></p>"},
		{"h2", "## Section", "<p><h2>Section</h2></p>"},
		{"h3", "### Sub", "<p><h3>Sub</h3></p>"},
		{"four hashes stay text", "#### Deep", "<p>#### Deep</p>"},
		{"hash without space stays text", "#tag", "<p>#tag</p>"},
		{"hash mid-line", "issue # 4 is open", "<p>issue # 4 is open</p>"},
		{"indented hash is not a heading", "  # nope", "<p>  # nope</p>"},
		{"bold", "**bold**", "<p><strong>bold</strong></p>"},
		{"bold pairs are independent", "**a** and **b**", "<p><strong>a</strong> and <strong>b</strong></p>"},
		{"unpaired bold marker", "a ** b", "<p>a ** b</p>"},
		{"bold inside heading", "# **Key** ideas", "<p><h1><strong>Key</strong> ideas</h1></p>"},
		{"bullets", "- a\n- b\n- c", "<p><li>a</li><li>b</li><li>c</li></p>"},
		{"numbered", "1. one\n2. two\n10. ten", "<p><li>one</li><li>two</li><li>ten</li></p>"},
		{"indented bullets", "  - a\n\t- b", "<p><li>a</li><li>b</li></p>"},
		{"items across blank lines coalesce", "- a\n\n- b", "<p><li>a</li><li>b</li></p>"},
		{"bold item", "- **Name**: value", "<p><li><strong>Name</strong>: value</li></p>"},
		{"digits without dot", "2024 was a year", "<p>2024 was a year</p>"},
		{"line break", "a\nb", "<p>a<br>b</p>"},
		{"paragraph", "a\n\nb", "<p>a</p><p>b</p>"},
		{"three newlines", "a\n\n\nb", "<p>a</p><p><br>b</p>"},
		{"heading then text", "# T\ntext", "<p><h1>T</h1><br>text</p>"},
		{"heading then paragraph", "# T\n\ntext", "<p><h1>T</h1></p><p>text</p>"},
		{"no paragraph before list", "Intro\n\n- a\n- b", "<p>Intro<li>a</li><li>b</li></p>"},
		{"item absorbs its newline", "- a\nafter", "<p><li>a</li>after</p>"},
		{"blank line after list", "- a\n\nafter", "<p><li>a</li><br>after</p>"},
		{"heading splits lists", "- a\n## H\n- b", "<p><li>a</li><h2>H</h2><li>b</li></p>"},
		{"paragraph splits lists", "- a\n\ntext\n\n- b", "<p><li>a</li><br>text<li>b</li></p>"},
		{"trailing newline", "a\n", "<p>a<br></p>"},
		{"whitespace-only line is text", "a\n   \nb", "<p>a<br>   <br>b</p>"},
		{"whitespace-only line between items", "- a\n  \n- b", "<p><li>a</li>  <li>b</li></p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.in))
		})
	}
}

func TestRenderPreservesPlainText(t *testing.T) {
	inputs := []string{
		"just words",
		"line one\nline two\nline three",
		"para one\n\npara two\nstill two",
		"   leading and trailing   ",
		"a\n   \nb",
		"trailing spaces  \n\t\nnext",
	}
	tags := regexp.MustCompile(`<[^>]+>`)

	for _, in := range inputs {
		out := Render(in)
		stripped := tags.ReplaceAllString(out, "")
		want := strings.ReplaceAll(in, "\n", "")
		assert.Equal(t, want, stripped, "input %q", in)
		assert.LessOrEqual(t, strings.Count(out, "<br>"), strings.Count(in, "\n"), "input %q", in)
	}
}

func TestRenderBoldLeavesNoMarkers(t *testing.T) {
	out := Render("**bold**")
	assert.Equal(t, 1, strings.Count(out, "<strong>"))
	assert.NotContains(t, out, "**")
}

func TestRenderListHasNoBreaksBetweenItems(t *testing.T) {
	out := Render("- a\n- b\n- c")
	assert.Equal(t, 3, strings.Count(out, "<li>"))
	assert.NotContains(t, out, "</li><br>")
	assert.NotContains(t, out, "</li></p><p><li>")
}

func TestParse(t *testing.T) {
	blocks := Parse("# Title\n\n- item\ntext\n3. third\n  ")
	want := []Block{
		{Kind: KindHeading, Level: 1, Text: "Title"},
		{Kind: KindBlank},
		{Kind: KindItem, Text: "item"},
		{Kind: KindText, Text: "text"},
		{Kind: KindItem, Text: "third"},
		{Kind: KindText, Text: "  "},
	}
	assert.Equal(t, want, blocks)
}
