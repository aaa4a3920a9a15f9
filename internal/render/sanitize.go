package render

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var allowedTags = map[string]bool{
	"span":   true,
	"mark":   true,
	"strong": true,
	"em":     true,
	"b":      true,
	"i":      true,
	"br":     true,
}

var allowedAttrs = map[string]bool{
	"class":      true,
	"title":      true,
	"data-label": true,
}

// dropped together with their content
var droppedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"noscript": true,
	"template": true,
}

// Sanitize keeps only inline highlighting markup from s. Text is
// re-escaped; unknown elements are unwrapped and script-like elements
// are removed with their content.
func Sanitize(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				log.WithError(z.Err()).Debug("annotated text tokenizer stopped early")
			}
			return b.String()

		case html.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if droppedTags[tok.Data] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 || !allowedTags[tok.Data] {
				continue
			}
			writeStartTag(&b, tok)

		case html.EndTagToken:
			tok := z.Token()
			if droppedTags[tok.Data] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 || !allowedTags[tok.Data] || tok.Data == "br" {
				continue
			}
			b.WriteString("</" + tok.Data + ">")
		}
	}
}

func writeStartTag(b *strings.Builder, tok html.Token) {
	b.WriteString("<" + tok.Data)
	for _, attr := range tok.Attr {
		if attr.Namespace != "" || !allowedAttrs[attr.Key] {
			continue
		}
		b.WriteString(" " + attr.Key + `="` + html.EscapeString(attr.Val) + `"`)
	}
	b.WriteString(">")
}
