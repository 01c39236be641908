package render

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// Markdown renders s to HTML. Forum bodies (including the generated
// report notices) are written in markdown.
func Markdown(s string) string {
	var b bytes.Buffer
	goldmark.Convert([]byte(s), &b)
	return b.String()
}
