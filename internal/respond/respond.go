// Package respond turns a matched FAQ record into display-ready reply text.
package respond

import (
	"fmt"
	"strings"

	"github.com/starford/ansuz/internal/faq"
)

// Fallback is the reply used when no record matches a question.
const Fallback = "I could not find an answer to that question in our FAQ. " +
	"Would you like me to connect you with one of our specialists? " +
	"You can also rephrase your question or browse the FAQ by category."

// EscalationConfirmation is appended after a specialist contact request.
const EscalationConfirmation = "Thank you. A specialist will be in touch with you shortly. " +
	"You can continue browsing the FAQ in the meantime."

// Synthesize builds the reply body for a record: the answer, an optional
// Reference block, and an optional Relevant Documents block with one
// bullet per link in original order. A nil record yields Fallback.
// Links use [title](url) markup; see ParseMarkup for the rendering side.
func Synthesize(r *faq.Record) string {
	if r == nil {
		return Fallback
	}

	var b strings.Builder
	b.WriteString(r.Answer)

	if r.Reference != "" {
		b.WriteString("\n\nReference: ")
		b.WriteString(r.Reference)
	}

	if len(r.Links) > 0 {
		b.WriteString("\n\nRelevant Documents:")
		for _, l := range r.Links {
			fmt.Fprintf(&b, "\n- [%s](%s)", l.Title, l.URL)
		}
	}

	return b.String()
}
