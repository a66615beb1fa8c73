// Package testutil provides shared test fixtures: a sample corpus and a
// temporary index database.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/index"
)

// CorpusYAML is a small corpus covering every category and the optional
// reference/links fields. faq-3 is deliberately the only Licensing record.
const CorpusYAML = `faqs:
  - id: faq-1
    question: What are the minimum capital requirements for commercial banks?
    answer: |-
      Commercial banks in Botswana must maintain a minimum capital adequacy ratio of 15% of risk-weighted assets, of which at least 7.5% must be Tier 1 capital.
      Banks falling below this threshold must submit a capital restoration plan within 30 days.
    category: Banking Supervision
    keywords:
      - capital
      - requirements
      - adequacy
    reference: Banking Act (Cap. 46:04), Section 13; Directive on Capital Adequacy, 2023
    links:
      - title: Directive on Capital Adequacy (2023)
        url: https://www.example.gov.bw/documents/capital-adequacy-directive-2023.pdf
      - title: Basel III Implementation Guideline
        url: https://www.example.gov.bw/documents/basel-iii-guideline.pdf
  - id: faq-2
    question: What liquidity requirements apply to licensed banks?
    answer: Licensed banks must hold liquid assets of no less than 10% of total deposit liabilities.
    category: Banking Supervision
    keywords:
      - liquidity
  - id: faq-3
    question: How do I apply for a banking licence?
    answer: Applications are submitted to the Director of Banking Supervision with the prescribed fee.
    category: Licensing
    keywords:
      - licence
      - apply
  - id: faq-4
    question: How do I lodge a complaint against my bank?
    answer: Complaints must first be raised with the bank's own complaints desk.
    category: Consumer Protection
    keywords:
      - complaint
  - id: faq-5
    question: Are mobile money and electronic payment services regulated?
    answer: Yes, providers must be authorised under the Electronic Payment Services Regulations.
    category: Payments
    keywords:
      - payment
      - mobile money
  - id: faq-6
    question: What is the process for registering a new financial services company?
    answer: A new financial services company is registered by filing the prescribed forms with the Registrar.
    category: Registration
    keywords:
      - register
      - registration
    reference: Financial Services Act, Part III
`

// Corpus loads the sample corpus.
func Corpus(t *testing.T) *faq.Corpus {
	t.Helper()
	c, err := faq.Load([]byte(CorpusYAML))
	if err != nil {
		t.Fatalf("load sample corpus: %v", err)
	}
	return c
}

// CorpusFile writes the sample corpus to a temp file and returns its path.
func CorpusFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	if err := os.WriteFile(path, []byte(CorpusYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestDB creates a temporary SQLite index that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
