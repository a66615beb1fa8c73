package respond

import (
	"testing"

	"github.com/starford/ansuz/internal/faq"
)

func TestParseMarkupParagraphsAndLines(t *testing.T) {
	body := "First paragraph.\n\nSecond paragraph line one.\nLine two."
	ps := ParseMarkup(body)
	if len(ps) != 2 {
		t.Fatalf("paragraphs = %d, want 2", len(ps))
	}
	if len(ps[0].Lines) != 1 || len(ps[1].Lines) != 2 {
		t.Fatalf("lines = %d/%d, want 1/2", len(ps[0].Lines), len(ps[1].Lines))
	}
	if got := ps[1].Lines[1].Segments[0].Text; got != "Line two." {
		t.Errorf("segment text = %q", got)
	}
}

func TestParseMarkupLinks(t *testing.T) {
	ps := ParseMarkup("- [Guideline](https://example.gov.bw/g.pdf) (2023)")
	if len(ps) != 1 || len(ps[0].Lines) != 1 {
		t.Fatalf("unexpected structure: %+v", ps)
	}
	segs := ps[0].Lines[0].Segments
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}
	if segs[0].Text != "- " {
		t.Errorf("lead text = %q", segs[0].Text)
	}
	if segs[1].Title != "Guideline" || segs[1].URL != "https://example.gov.bw/g.pdf" {
		t.Errorf("link segment = %+v", segs[1])
	}
	if segs[2].Text != " (2023)" {
		t.Errorf("trail text = %q", segs[2].Text)
	}
}

func TestParseMarkupPlainTextRoundTrip(t *testing.T) {
	ps := ParseMarkup("No links here.")
	if len(ps) != 1 || len(ps[0].Lines[0].Segments) != 1 {
		t.Fatalf("unexpected structure: %+v", ps)
	}
	if ps[0].Lines[0].Segments[0].URL != "" {
		t.Error("plain text should have no URL")
	}
}

func TestParseMarkupOnSynthesizedReply(t *testing.T) {
	r := &faq.Record{
		Answer:    "The ratio is 15%.",
		Reference: "Banking Act, Section 13",
		Links: []faq.Link{
			{Title: "Directive", URL: "https://example.gov.bw/a.pdf"},
		},
	}
	ps := ParseMarkup(Synthesize(r))
	if len(ps) != 3 {
		t.Fatalf("paragraphs = %d, want answer/reference/documents", len(ps))
	}
	docs := ps[2]
	if len(docs.Lines) != 2 {
		t.Fatalf("documents lines = %d, want heading plus one bullet", len(docs.Lines))
	}
	bullet := docs.Lines[1].Segments
	if len(bullet) != 2 || bullet[1].Title != "Directive" {
		t.Errorf("bullet segments = %+v", bullet)
	}
}
