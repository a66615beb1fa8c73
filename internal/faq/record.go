// Package faq defines the FAQ corpus domain types and YAML loading.
package faq

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Category is a closed label set used for filtering FAQ records.
type Category string

// Known categories. CategoryAll is a filter sentinel, never a record value.
const (
	CategoryAll                Category = "All"
	CategoryBankingSupervision Category = "Banking Supervision"
	CategoryLicensing          Category = "Licensing"
	CategoryRegistration       Category = "Registration"
	CategoryConsumerProtection Category = "Consumer Protection"
	CategoryPayments           Category = "Payments"
	CategoryAMLCFT             Category = "AML/CFT"
)

// Categories lists every record category in display order (excludes the All sentinel).
func Categories() []Category {
	return []Category{
		CategoryBankingSupervision,
		CategoryLicensing,
		CategoryRegistration,
		CategoryConsumerProtection,
		CategoryPayments,
		CategoryAMLCFT,
	}
}

// ParseCategory validates a raw category string, accepting the All sentinel.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if c == CategoryAll {
		return c, nil
	}
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("faq: unknown category %q", s)
}

// Link is a titled document reference appended to synthesized answers.
type Link struct {
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url" json:"url"`
}

// Validate checks that both fields are present.
func (l Link) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Title, validation.Required),
		validation.Field(&l.URL, validation.Required),
	)
}

// Record is a single static question/answer unit with matching metadata.
type Record struct {
	ID        string   `yaml:"id" json:"id"`
	Question  string   `yaml:"question" json:"question"`
	Answer    string   `yaml:"answer" json:"answer"`
	Category  Category `yaml:"category" json:"category"`
	Keywords  []string `yaml:"keywords" json:"keywords,omitempty"`
	Reference string   `yaml:"reference" json:"reference,omitempty"`
	Links     []Link   `yaml:"links" json:"links,omitempty"`
}

// Validate checks the record invariants: non-blank id/question/answer,
// a category from the closed set, and lowercase non-empty keywords.
func (r Record) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Question, validation.Required),
		validation.Field(&r.Answer, validation.Required),
		validation.Field(&r.Category, validation.Required, validation.In(categoriesAny()...)),
		validation.Field(&r.Links),
	); err != nil {
		return err
	}
	for _, k := range r.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("faq: record %s: empty keyword", r.ID)
		}
		if k != strings.ToLower(k) {
			return fmt.Errorf("faq: record %s: keyword %q is not lowercase", r.ID, k)
		}
	}
	return nil
}

func categoriesAny() []interface{} {
	cats := Categories()
	out := make([]interface{}, len(cats))
	for i, c := range cats {
		out[i] = c
	}
	return out
}
