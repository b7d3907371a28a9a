package enrichment

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const noiseSelector = "script, style, noscript, svg, iframe, template"

// condensePage reduces an HTML page to the parts useful for contact
// extraction: title, meta description, visible text and contact-like links.
func condensePage(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var links []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if !isContactLink(href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	doc.Find(noiseSelector).Remove()

	var sb strings.Builder
	if title := collapseSpace(doc.Find("title").First().Text()); title != "" {
		sb.WriteString("Title: " + title + "\n")
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
		sb.WriteString("Description: " + collapseSpace(desc) + "\n")
	}
	if text := collapseSpace(doc.Find("body").Text()); text != "" {
		sb.WriteString(text + "\n")
	}
	if len(links) > 0 {
		sb.WriteString("Links:\n")
		for _, l := range links {
			sb.WriteString("- " + l + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func isContactLink(href string) bool {
	return strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "http")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
