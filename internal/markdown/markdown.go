package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Renderer configuration mirrors how show notes are rendered for preview:
// bare URLs are linkified, quotes are smartened, and line breaks are hard.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Linkify,
		extension.Typographer,
		extension.Strikethrough,
		extension.Table,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// Render converts markdown to HTML. Deterministic for the same input.
func Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// ExtractLinks returns the href of every anchor whose value begins with
// "http", in document order. Relative and fragment links are skipped; they
// cannot be validated over the network.
func ExtractLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}

	var links []string
	doc.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if ok && strings.HasPrefix(href, "http") {
			links = append(links, href)
		}
	})
	return links, nil
}
