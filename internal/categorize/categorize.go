// Package categorize assigns taxonomy labels to transaction text by ordered
// keyword rules.
package categorize

import "strings"

// Rule maps any of its keywords to a category.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Categorizer evaluates rules in order; the first rule with a keyword contained
// in the text wins. It is immutable after New and safe for concurrent use.
type Categorizer struct {
	rules []Rule
}

// New builds a Categorizer from rules in match order.
func New(rules ...Rule) *Categorizer {
	compiled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		compiled = append(compiled, Rule{Category: r.Category, Keywords: kws})
	}
	return &Categorizer{rules: compiled}
}

// Default returns a Categorizer over DefaultRules.
func Default() *Categorizer {
	return New(DefaultRules()...)
}

// Categorize returns the category of text, or Other.
func (c *Categorizer) Categorize(text string) string {
	text = strings.ToLower(text)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.Category
			}
		}
	}
	return Other
}

// CategorizeMerchant matches against "merchant description".
func (c *Categorizer) CategorizeMerchant(merchant, description string) string {
	return c.Categorize(strings.TrimSpace(merchant + " " + description))
}

// Rules returns a copy of the rules in match order.
func (c *Categorizer) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}
