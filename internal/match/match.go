// Package match selects candidate FAQ records for a free-text query.
//
// Two matching rules exist and must stay distinct: the chat path is
// keyword-driven (a record keyword contained in the query) while the browse
// path is query-driven (the query contained in a record field). Unifying
// them would change observable results for both surfaces.
package match

import (
	"strings"

	"github.com/starford/ansuz/internal/faq"
)

// Normalize lowercases and trims a query the way both matchers do.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Chat returns the records matching a conversational query, in corpus
// order. A record matches when the normalized query contains one of its
// keywords, or when the query is a substring of the lowercased question.
// A blank query matches nothing. The first result is the best match.
func Chat(query string, c *faq.Corpus, active faq.Category) []faq.Record {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	var out []faq.Record
	for _, r := range c.ByCategory(active) {
		if chatMatches(q, r) {
			out = append(out, r)
		}
	}
	return out
}

// Best returns the top chat match for a query, or nil when nothing matches.
func Best(query string, c *faq.Corpus, active faq.Category) *faq.Record {
	hits := Chat(query, c, active)
	if len(hits) == 0 {
		return nil
	}
	return &hits[0]
}

// Browse returns the records matching a browse-tab search query, in corpus
// order. A record matches when the normalized query is a substring of its
// lowercased question, answer, or any keyword. A blank query matches
// nothing; callers revert to the full category listing instead.
func Browse(query string, c *faq.Corpus, active faq.Category) []faq.Record {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	var out []faq.Record
	for _, r := range c.ByCategory(active) {
		if BrowseMatches(q, r) {
			out = append(out, r)
		}
	}
	return out
}

func chatMatches(q string, r faq.Record) bool {
	if strings.Contains(strings.ToLower(r.Question), q) {
		return true
	}
	for _, k := range r.Keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// BrowseMatches reports whether a normalized query hits a record under the
// browse rule. Exported so the SQLite index tests can assert parity.
func BrowseMatches(q string, r faq.Record) bool {
	if strings.Contains(strings.ToLower(r.Question), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Answer), q) {
		return true
	}
	for _, k := range r.Keywords {
		if strings.Contains(k, q) {
			return true
		}
	}
	return false
}
