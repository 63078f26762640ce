package extract

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// maxFallbackParagraphs bounds the paragraph fallback
const maxFallbackParagraphs = 10

// Article is the headline and body text pulled out of a news page
type Article struct {
	Title   string
	Content string
}

// ExtractArticle pulls the headline and body out of an HTML page.
// The body comes from readability; when that yields nothing the first
// paragraphs of the page are used instead.
func ExtractArticle(htmlContent string, pageURL *url.URL) (Article, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return Article{}, err
	}

	article := Article{Title: extractTitle(doc)}

	if parsed, err := readability.FromReader(strings.NewReader(htmlContent), pageURL); err == nil {
		article.Content = normalizeSpace(parsed.TextContent)
		if article.Title == "" {
			article.Title = normalizeSpace(parsed.Title)
		}
	}

	if article.Content == "" {
		article.Content = paragraphText(doc, maxFallbackParagraphs)
	}

	return article, nil
}

// extractTitle prefers og:title, then <title>, then the first <h1>
func extractTitle(doc *html.Node) string {
	var ogTitle, title, h1 string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if attr(n, "property") == "og:title" && ogTitle == "" {
					ogTitle = normalizeSpace(attr(n, "content"))
				}
			case "title":
				if title == "" {
					title = normalizeSpace(textOf(n))
				}
			case "h1":
				if h1 == "" {
					h1 = normalizeSpace(textOf(n))
				}
			case "script", "style", "noscript":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	switch {
	case ogTitle != "":
		return ogTitle
	case title != "":
		return title
	default:
		return h1
	}
}

// paragraphText joins the text of the first limit <p> elements
func paragraphText(doc *html.Node, limit int) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(parts) >= limit {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "footer", "header":
				return
			case "p":
				if text := normalizeSpace(textOf(n)); text != "" {
					parts = append(parts, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(parts, " ")
}

// textOf concatenates all text nodes below n
func textOf(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return buf.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
