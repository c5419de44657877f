package correction

import (
	"regexp"
	"strings"
)

// Rule is a single vocabulary substitution: a literal phrase and its
// replacement. Phrases are matched case-insensitively on word boundaries.
type Rule struct {
	Phrase      string
	Replacement string
}

// Filter applies a fixed, ordered set of substitution rules to transcript
// text. Rules run in declaration order, so a later rule sees the output of an
// earlier one; callers that define overlapping phrases rely on that order.
type Filter struct {
	rules []compiledRule
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// NewFilter compiles the rule set. Rules with empty phrases are skipped.
func NewFilter(rules []Rule) *Filter {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r.Phrase) == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(r.Phrase) + `\b`)
		compiled = append(compiled, compiledRule{re: re, replacement: r.Replacement})
	}
	return &Filter{rules: compiled}
}

// Apply returns the text with every rule applied. It is a pure function:
// no matches means the input comes back unchanged.
func (f *Filter) Apply(text string) string {
	for _, r := range f.rules {
		text = r.re.ReplaceAllString(text, r.replacement)
	}
	return text
}

// DefaultRules is the domain vocabulary dictionary shipped with the service.
// It is configuration data; tests and deployments may inject their own set.
func DefaultRules() []Rule {
	return []Rule{
		{Phrase: "Thank you, sir. Have a good day in the", Replacement: "Thank you sa pag attend"},
		{Phrase: "young", Replacement: "yoong"},
	}
}
