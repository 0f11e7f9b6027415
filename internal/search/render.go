package search

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
)

// md renders without raw HTML passthrough, so untrusted descriptions cannot
// inject markup.
var md = goldmark.New()

// RenderDescription converts a repository description from Markdown to HTML.
func RenderDescription(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
