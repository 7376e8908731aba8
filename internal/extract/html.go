package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Article is the readable content of an HTML news page
type Article struct {
	Text  string   // Visible text
	Links []string // Absolute http(s) link targets, deduplicated, in page order
}

// ParseArticle reads an HTML document and returns its visible text and the
// external links it cites
func ParseArticle(r io.Reader) (*Article, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &Article{
		Text:  extractVisibleText(doc),
		Links: extractLinks(doc),
	}, nil
}

// VisibleText returns the text content of an HTML string, skipping scripts,
// styles and embedded frames
func VisibleText(htmlContent string) (string, error) {
	a, err := ParseArticle(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}
	return a.Text, nil
}

// Document returns the article text with cited links appended, so that the
// link cues survive HTML rendering
func (a *Article) Document() string {
	if len(a.Links) == 0 {
		return a.Text
	}
	return a.Text + " " + strings.Join(a.Links, " ")
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(parts, " ")
}

// extractLinks collects absolute http(s) anchors
func extractLinks(n *html.Node) []string {
	seen := make(map[string]bool)
	var links []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if link := absoluteLink(attr.Val); link != "" && !seen[link] {
					seen[link] = true
					links = append(links, link)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return links
}

// absoluteLink returns href if it is an absolute http(s) URL.
// Anchors, relative paths, javascript: and mailto: links are dropped.
func absoluteLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	if parsed.Host == "" {
		return ""
	}

	return parsed.String()
}
