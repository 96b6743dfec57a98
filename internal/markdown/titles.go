// Package markdown extracts document titles from markdown content for the
// manifest block embedded in generated installer scripts.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DocumentTitle returns the text of the first heading in the markdown
// content. Returns an empty string when the document has no headings.
func DocumentTitle(content string) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader([]byte(content)))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			title = extractText(heading, []byte(content))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(title)
}

// IsMarkdownPath reports whether the path looks like a markdown document.
func IsMarkdownPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

// extractText concatenates the text segments directly under a node.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if text, ok := c.(*ast.Text); ok {
			buf.Write(text.Segment.Value(source))
		}
	}
	return buf.String()
}
