package notify

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// DescriptionRenderer turns feed item html into discord markdown
type DescriptionRenderer struct {
	policy *bluemonday.Policy
	conv   *md.Converter
}

// NewDescriptionRenderer makes renderer with atx headings, "-" bullets, fenced code and "*" emphasis
func NewDescriptionRenderer() *DescriptionRenderer {
	opts := &md.Options{
		HeadingStyle:     "atx",
		BulletListMarker: "-",
		CodeBlockStyle:   "fenced",
		EmDelimiter:      "*",
		EscapeMode:       "disabled", // "|" separators must survive conversion
	}
	conv := md.NewConverter("", true, opts)
	conv.AddRules(md.Rule{
		Filter: []string{"cite"},
		Replacement: func(content string, _ *goquery.Selection, opt *md.Options) *string {
			if strings.TrimSpace(content) == "" {
				return md.String("")
			}
			return md.String(opt.EmDelimiter + content + opt.EmDelimiter)
		},
	})
	return &DescriptionRenderer{policy: bluemonday.UGCPolicy(), conv: conv}
}

// Markdown converts sanitized html to markdown, falls back to plain text on conversion failure
func (r *DescriptionRenderer) Markdown(html string) string {
	clean := r.policy.Sanitize(html)
	res, err := r.conv.ConvertString(clean)
	if err != nil {
		return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(html))
	}
	return strings.TrimSpace(res)
}

// Render makes embed description. The markdown is split on "|", the first two segments
// stay joined on the first line and each remaining segment goes on its own line.
func (r *DescriptionRenderer) Render(html string) string {
	return SplitSegments(r.Markdown(html))
}

// SplitSegments lays out "|" separated segments, first two on line one, the rest one per line
func SplitSegments(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) <= 2 {
		return strings.Join(parts, "|")
	}
	lines := make([]string, 0, len(parts)-1)
	lines = append(lines, parts[0]+"|"+parts[1])
	lines = append(lines, parts[2:]...)
	return strings.Join(lines, "\n")
}
