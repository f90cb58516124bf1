package utils

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagPattern = regexp.MustCompile(`(?i)<\s*(html|body|div|p|ul|li|h[1-6]|section|article|br)\b`)
	blankLines     = regexp.MustCompile(`\n{3,}`)
	spaceRuns      = regexp.MustCompile(`[ \t\p{Zs}]+`)
)

// blockSelectors are elements whose text is put on its own line.
const blockSelectors = "p, li, h1, h2, h3, h4, h5, h6, div, section, article, td, th, dt, dd, pre, br, tr"

// LooksLikeHTML reports whether content appears to be an HTML document or fragment.
func LooksLikeHTML(content string) bool {
	head := content
	if len(head) > 4096 {
		head = head[:4096]
	}
	return htmlTagPattern.MatchString(head)
}

// HTMLToText extracts readable text from an HTML job posting. Scripts,
// styles and navigation chrome are dropped and block elements become lines.
func HTMLToText(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, nav, header, footer, svg").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	lines := strings.Split(root.Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
		out = append(out, line)
	}
	text := blankLines.ReplaceAllString(strings.Join(out, "\n"), "\n\n")
	return strings.TrimSpace(text), nil
}
