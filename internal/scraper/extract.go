package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"golang.org/x/net/html"
)

const (
	articleBodyClass  = "main-article-body"
	referencesSection = "References"
)

// ExtractSections parses an article page into doc. Every <section> nested in
// a main-article-body section that carries an <h2> becomes one section: the
// first <h3> line, then one line per <p>. The References section also keeps
// its full text.
func ExtractSections(r io.Reader, doc *corpus.Document) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("failed to parse html: %w", err)
	}

	if doc.SectionNames == nil {
		doc.SectionNames = []string{}
	}

	// The tree is mutated below, so collect containers first.
	for _, container := range findAll(root, "section") {
		if !hasClass(container, articleBodyClass) {
			continue
		}
		for _, sub := range findAll(container, "section") {
			heading := findFirst(sub, "h2")
			if heading == nil {
				continue
			}

			title := textOf(heading)
			doc.SectionNames = append(doc.SectionNames, title)
			heading.Parent.RemoveChild(heading)

			var body strings.Builder
			if sub3 := findFirst(sub, "h3"); sub3 != nil {
				body.WriteString(textOf(sub3))
				body.WriteString("\n")
			}
			for _, p := range findAll(sub, "p") {
				body.WriteString(textOf(p))
				body.WriteString("\n")
			}
			if title == referencesSection {
				body.WriteString(textOf(sub))
			}

			doc.SetSection(title, body.String())
		}
	}

	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// findAll returns the element descendants of n named tag, in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var found []*html.Node
	var walker func(*html.Node)
	walker = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && child.Data == tag {
				found = append(found, child)
			}
			walker(child)
		}
	}
	walker(n)
	return found
}

func findFirst(n *html.Node, tag string) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == tag {
			return child
		}
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// textOf joins the trimmed, non-empty text nodes under n with no separator.
func textOf(n *html.Node) string {
	var builder strings.Builder
	var walker func(*html.Node)
	walker = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		if node.Type == html.TextNode {
			builder.WriteString(strings.TrimSpace(node.Data))
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walker(child)
		}
	}
	walker(n)
	return builder.String()
}
