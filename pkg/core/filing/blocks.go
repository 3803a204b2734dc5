package filing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TextBlock is one leaf block-level unit of document text.
// Blocks live in a single ordered sequence; position is the identity.
type TextBlock struct {
	Text      string
	IsHeading bool
}

// defaultBlockTags is the set of block-level tags considered for leaf
// block extraction.
var defaultBlockTags = []string{
	"p", "div", "li", "td", "th", "section", "article",
	"h1", "h2", "h3", "h4", "h5", "h6",
}

// headingTags are tags that count as a heading signal on their own.
var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"strong": true, "b": true,
}

// extractBlocks builds the ordered leaf-block sequence from a parsed
// document. An element qualifies only if none of its descendants is
// also a block tag, so nested containers are not double-counted.
// Blocks whose cleaned text is empty are dropped.
func (e *Extractor) extractBlocks(doc *goquery.Document) []TextBlock {
	doc.Find("script, style, noscript").Remove()

	var blocks []TextBlock
	doc.Find(e.blockSelector).Each(func(_ int, sel *goquery.Selection) {
		if sel.Find(e.blockSelector).Length() > 0 {
			return
		}
		text := Normalize(flattenText(sel))
		if text == "" {
			return
		}
		blocks = append(blocks, TextBlock{
			Text:      text,
			IsHeading: isHeadingLike(sel),
		})
	})
	return blocks
}

// flattenText joins the stripped text of every descendant text node
// with single spaces, mirroring how inline elements read as one line.
func flattenText(sel *goquery.Selection) string {
	var parts []string
	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// isHeadingLike detects whether a block likely renders as a visual
// header: a heading/bold tag, an inline style carrying bold or a
// weight of 700+, or a nested strong/b element. Style comparison is
// case-insensitive with whitespace stripped, since EDGAR filings are
// inconsistent about "font-weight: bold" vs "font-weight:bold".
func isHeadingLike(sel *goquery.Selection) bool {
	if headingTags[goquery.NodeName(sel)] {
		return true
	}

	style, _ := sel.Attr("style")
	style = strings.ReplaceAll(strings.ToLower(style), " ", "")
	if strings.Contains(style, "font-weight:700") || strings.Contains(style, "font-weight:bold") {
		return true
	}

	return sel.Find("strong, b").Length() > 0
}
