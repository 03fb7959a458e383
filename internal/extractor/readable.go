package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Page is the readable reduction of one HTML document.
type Page struct {
	Title    string
	SiteName string
	Text     string
}

var whitespaceRe = regexp.MustCompile(`[ \t]+`)

// ReadablePage reduces raw HTML to plain text plus title/site-name metadata.
// Readability is tried first; on failure goquery strips chrome elements and
// takes the body text. Never returns an error: an unparseable document yields
// an empty page and the caller's defaults take over.
func ReadablePage(html, rawURL string) Page {
	pageURL, _ := url.Parse(rawURL)

	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err == nil {
		text := strings.TrimSpace(article.TextContent)
		if text != "" {
			return Page{
				Title:    strings.TrimSpace(article.Title),
				SiteName: strings.TrimSpace(article.SiteName),
				Text:     normalizeText(text),
			}
		}
	}
	return pageWithGoquery(html)
}

func pageWithGoquery(html string) Page {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}
	}

	var page Page
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if v, ok := doc.Find("meta[property='og:site_name']").First().Attr("content"); ok {
		page.SiteName = strings.TrimSpace(v)
	}

	doc.Find("script, style, noscript, iframe, svg, header, footer, nav, aside").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		page.Text = normalizeText(doc.Text())
		return page
	}
	page.Text = normalizeText(body.Text())
	return page
}

func normalizeText(s string) string {
	s = whitespaceRe.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	clean := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			clean = append(clean, line)
		}
	}
	return strings.Join(clean, "\n")
}
