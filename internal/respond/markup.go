package respond

import (
	"regexp"
	"strings"
)

var linkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)

// Segment is one piece of a rendered line: plain text or an inline link.
type Segment struct {
	Text string `json:"text,omitempty"`
	// Link fields are set only for link segments.
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Line is a sequence of segments separated from its siblings by a single
// newline within a paragraph.
type Line struct {
	Segments []Segment `json:"segments"`
}

// Paragraph is a block separated by a blank line.
type Paragraph struct {
	Lines []Line `json:"lines"`
}

// ParseMarkup splits a reply body into paragraphs (double newline), lines
// (single newline), and segments ([title](url) spans vs plain text), so
// hosts can render replies without interpreting raw markup themselves.
func ParseMarkup(body string) []Paragraph {
	var out []Paragraph
	for _, block := range strings.Split(body, "\n\n") {
		if block == "" {
			continue
		}
		var p Paragraph
		for _, raw := range strings.Split(block, "\n") {
			p.Lines = append(p.Lines, parseLine(raw))
		}
		out = append(out, p)
	}
	return out
}

func parseLine(raw string) Line {
	var line Line
	last := 0
	for _, m := range linkRe.FindAllStringSubmatchIndex(raw, -1) {
		if m[0] > last {
			line.Segments = append(line.Segments, Segment{Text: raw[last:m[0]]})
		}
		line.Segments = append(line.Segments, Segment{
			Title: raw[m[2]:m[3]],
			URL:   raw[m[4]:m[5]],
		})
		last = m[1]
	}
	if last < len(raw) {
		line.Segments = append(line.Segments, Segment{Text: raw[last:]})
	}
	return line
}
