package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sukalov/versuri/internal/sources"
)

// Text pulls the lyrics out of a raw response body according to the
// source's extraction rule. ok is false when the body holds no usable
// content; that is not an error, just "this site has nothing for us".
//
// Matched elements are concatenated with a blank line between them,
// later matches first: two matches "verse one" and "verse two" come out
// as "verse two\n\nverse one\n\n".
func Text(src sources.Source, body string) (text string, ok bool) {
	if src.Selector == "" {
		trimmed := strings.TrimSpace(body)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", false
	}

	doc.Find(src.Selector).Each(func(_ int, sel *goquery.Selection) {
		part := sel.Text()
		// songlyrics leaves stray carriage returns inside its lyrics block
		if src.Name == "songlyrics" {
			part = strings.ReplaceAll(part, "\r", "")
		}
		text = part + "\n\n" + text
	})

	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}
