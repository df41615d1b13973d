package district

import (
	"bytes"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

var reFromDate = regexp.MustCompile(`fromdate=(\d{4}-\d{2}-\d{2})`)

// AnchorExtractor récupère les dates des liens de navigation de la page
// (chaque jour réservable est un <a href="...?fromdate=YYYY-MM-DD">).
type AnchorExtractor struct {
	Selector string
}

func NewAnchorExtractor() *AnchorExtractor {
	return &AnchorExtractor{Selector: `a[href*='fromdate=']`}
}

func (e *AnchorExtractor) Extract(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	sel := e.Selector
	if sel == "" {
		sel = `a[href*='fromdate=']`
	}

	seen := map[string]bool{}
	out := []string{}
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		m := reFromDate.FindStringSubmatch(href)
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		out = append(out, m[1])
	})
	return out, nil
}
