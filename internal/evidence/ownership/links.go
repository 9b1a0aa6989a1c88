package ownership

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

type link struct {
	Href string
	Text string
}

// parseLinks returns every anchor of an HTML page in document order.
func parseLinks(body []byte) ([]link, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var links []link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			links = append(links, link{Href: attr(n, "href"), Text: strings.TrimSpace(text(n))})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func firstLink(links []link, match func(href string) bool) (link, bool) {
	for _, l := range links {
		if l.Href != "" && match(l.Href) {
			return l, true
		}
	}
	return link{}, false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
