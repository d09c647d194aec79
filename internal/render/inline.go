// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"

	"github.com/pdiddy/notion-export/pkg/types"
)

// Annotate wraps text in the decorations set in a. The wrapping order is
// fixed: code innermost, then bold, italic, strikethrough, underline, and
// background highlight outermost.
func Annotate(a types.Annotations, text string) string {
	if a.Code {
		text = "`" + text + "`"
	}
	if a.Bold {
		text = "**" + text + "**"
	}
	if a.Italic {
		text = "*" + text + "*"
	}
	if a.Strikethrough {
		text = "~~" + text + "~~"
	}
	if a.Underline {
		text = "<u>" + text + "</u>"
	}
	if a.Highlighted() {
		text = "<mark>" + text + "</mark>"
	}
	return text
}

// FormatRichText renders spans in order. A span with an href becomes a
// link around its decorated text.
func FormatRichText(spans []types.RichText) string {
	var b strings.Builder
	for _, s := range spans {
		text := Annotate(s.Annotations, s.PlainText)
		if s.Href != "" {
			text = "[" + text + "](" + s.Href + ")"
		}
		b.WriteString(text)
	}
	return b.String()
}
