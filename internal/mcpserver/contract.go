package mcpserver

// CorpusFormatContract describes the corpus YAML file format for LLM
// consumers that want to understand what the FAQ tools search over.
const CorpusFormatContract = `# Ansuz FAQ Corpus Format

The corpus is a single YAML file with a top-level ` + "`faqs`" + ` list. It is
read-only at runtime; edits to the file are hot-reloaded by the service.

## Structure

` + "```" + `yaml
faqs:
  - id: faq-1                      # REQUIRED - unique, stable, never reused
    question: Canonical question?  # REQUIRED - display text
    answer: |                      # REQUIRED - may contain paragraph breaks
      Answer body.
    category: Banking Supervision  # REQUIRED - one of the closed set below
    keywords:                      # OPTIONAL - lowercase match triggers
      - capital
      - requirements
    reference: Banking Act s.14    # OPTIONAL - citation appended to replies
    links:                         # OPTIONAL - documents appended to replies
      - title: Capital Guideline
        url: https://example.org/guideline.pdf
` + "```" + `

## Rules

1. **IDs are unique and stable.** Never reuse a retired id.
2. **Categories are a closed set:** Banking Supervision, Licensing,
   Consumer Protection, Payments, AML/CFT. "All" is a filter sentinel and
   never a record value.
3. **Keywords are lowercase** and non-empty. The chat path matches a
   keyword contained in the user's question; pick short trigger words.
4. **Links** need both title and url.
5. Replies are synthesized as: answer, then an optional "Reference:" block,
   then an optional "Relevant Documents:" block with one ` + "`[title](url)`" + `
   bullet per link.
`
