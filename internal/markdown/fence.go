// Package markdown adapts a Markdown document into the ordered fence nodes
// the rest of the engine operates on: each fenced code block's language, raw
// info string, body, and source line span, plus the nearest preceding
// heading for provenance in diagnostics.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence is one fenced code block extracted from a document, in document
// order.
type Fence struct {
	Language  string
	Info      string
	Body      string
	StartLine int
	EndLine   int
	Heading   string
}

// Document is a parsed Markdown source: its path and the fences it contains,
// in document order.
type Document struct {
	Path   string
	Source []byte
	Fences []Fence
}

// Parse reads source (a Markdown document identified by path, used only for
// diagnostics) and extracts its fenced code blocks in order.
func Parse(path string, source []byte) (*Document, error) {
	md := goldmark.New()
	reader := text.NewReader(source)
	root := md.Parser().Parse(reader)

	doc := &Document{Path: path, Source: source}
	heading := ""

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			heading = string(node.Text(source))
		case *ast.FencedCodeBlock:
			doc.Fences = append(doc.Fences, fenceFromNode(node, source, heading))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func fenceFromNode(node *ast.FencedCodeBlock, source []byte, heading string) Fence {
	var body bytes.Buffer
	for i := 0; i < node.Lines().Len(); i++ {
		seg := node.Lines().At(i)
		body.Write(seg.Value(source))
	}

	info := ""
	if node.Info != nil {
		info = string(node.Info.Text(source))
	}

	startLine, endLine := lineSpan(node, source)

	return Fence{
		Language:  languageFromInfo(info),
		Info:      info,
		Body:      body.String(),
		StartLine: startLine,
		EndLine:   endLine,
		Heading:   heading,
	}
}

// languageFromInfo returns the leading whitespace-delimited token of an info
// string, conventionally the fence's language tag.
func languageFromInfo(info string) string {
	for i, r := range info {
		if r == ' ' || r == '\t' {
			return info[:i]
		}
	}
	return info
}

// lineSpan derives 1-indexed start/end line numbers for node by counting
// newlines up to its byte offsets in source.
func lineSpan(node *ast.FencedCodeBlock, source []byte) (start, end int) {
	lines := node.Lines()
	if lines.Len() == 0 {
		return 0, 0
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	start = 1 + bytes.Count(source[:first.Start], []byte{'\n'})
	end = 1 + bytes.Count(source[:last.Stop], []byte{'\n'})
	return start, end
}
