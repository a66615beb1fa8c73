package faq

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/checksum"
)

// Corpus is the complete fixed set of FAQ records. It is loaded once and
// never mutated; hot reloads build a fresh Corpus and swap the pointer.
type Corpus struct {
	records []Record
	byID    map[string]int
	version string
}

type corpusFile struct {
	FAQs []Record `yaml:"faqs"`
}

// Load decodes and validates a corpus from raw YAML bytes.
func Load(data []byte) (*Corpus, error) {
	var f corpusFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("faq: parse corpus: %w", err)
	}
	if len(f.FAQs) == 0 {
		return nil, fmt.Errorf("faq: corpus is empty")
	}

	byID := make(map[string]int, len(f.FAQs))
	for i, r := range f.FAQs {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("faq: record %d (%s): %w", i, r.ID, err)
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("faq: duplicate id %q", r.ID)
		}
		byID[r.ID] = i
	}

	return &Corpus{
		records: f.FAQs,
		byID:    byID,
		version: checksum.Sum(data),
	}, nil
}

// LoadFile loads a corpus from a YAML file on disk.
func LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("faq: read corpus file %s: %w", path, err)
	}
	return Load(data)
}

// Records returns the records in corpus insertion order.
// Callers must not modify the returned slice.
func (c *Corpus) Records() []Record {
	return c.records
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	return len(c.records)
}

// ByID returns the record with the given id, or nil when absent.
func (c *Corpus) ByID(id string) *Record {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	return &c.records[i]
}

// ByCategory returns every record in the given category, preserving corpus
// order. The All sentinel returns the full corpus.
func (c *Corpus) ByCategory(cat Category) []Record {
	if cat == CategoryAll {
		return c.records
	}
	var out []Record
	for _, r := range c.records {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}

// Version is the SHA-256 fingerprint of the source bytes, used to detect
// no-op reloads and surfaced in corpus update events.
func (c *Corpus) Version() string {
	return c.version
}
