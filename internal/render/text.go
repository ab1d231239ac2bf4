package render

import (
	"strings"

	"golang.org/x/net/html"
)

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"pre": true, "blockquote": true, "section": true, "article": true,
	"table": true, "ul": true, "ol": true, "header": true, "footer": true,
	"iframe": true,
}

// PlainText projects an HTML fragment onto terminal text: block elements break
// lines, list items get a bullet, script and style bodies are dropped and
// whitespace collapses outside <pre>.
func PlainText(s string) string {
	var (
		out  strings.Builder
		text strings.Builder
		pre  int
		skip string
	)

	flush := func() {
		t := text.String()
		text.Reset()
		if pre == 0 {
			t = strings.Join(strings.Fields(t), " ")
			if t == "" {
				return
			}
			if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") && !strings.HasSuffix(out.String(), " ") {
				out.WriteByte(' ')
			}
		}
		out.WriteString(t)
	}

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return collapseBlankLines(out.String())
		case html.TextToken:
			if skip == "" {
				text.Write(z.Text())
			}
			continue
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
		default:
			continue
		}

		raw, _ := z.TagName()
		name := string(raw)
		closing := tt == html.EndTagToken

		if skip != "" {
			if closing && name == skip {
				skip = ""
			}
			continue
		}
		if tt == html.StartTagToken && (name == "script" || name == "style") {
			flush()
			skip = name
			continue
		}
		if !blockTags[name] {
			continue
		}

		flush()
		if name == "pre" {
			if closing && pre > 0 {
				pre--
			} else if tt == html.StartTagToken {
				pre++
			}
		}
		if !strings.HasSuffix(out.String(), "\n") && out.Len() > 0 {
			out.WriteByte('\n')
		}
		if !closing && name == "li" {
			out.WriteString("• ")
		}
		if !closing && name == "hr" {
			out.WriteString("────\n")
		}
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, strings.TrimRight(l, " "))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
