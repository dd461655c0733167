package firewall

import (
	"regexp"
	"strings"
)

const (
	RuleBlocklist    = "blocklist"
	RuleSQLInjection = "sql_injection"
)

// DefaultBlocklist mirrors the keyword set the service shipped with before
// the blocklist became configurable.
var DefaultBlocklist = []string{"hack", "exploit", "malicious", "inject", "root"}

var sqlInjectionPattern = regexp.MustCompile(`(?i)\b(DROP\s+TABLE|UNION\s+SELECT|INSERT\s+INTO|DELETE\s+FROM)\b`)

type RuleConfig struct {
	Blocklist        []string
	DisableBlocklist bool
	DisableInjection bool
}

// RuleMatch describes a rule-based pre-check hit. Reason strings are fixed
// per rule so identical inputs always produce identical text.
type RuleMatch struct {
	Rule   string
	Reason string
}

// RuleInspector runs cheap deterministic checks before the classifier is
// consulted. A hit blocks without spending a model call.
type RuleInspector struct {
	blocklist      []string
	checkInjection bool
}

func NewRuleInspector(config RuleConfig) *RuleInspector {
	var blocklist []string
	if !config.DisableBlocklist {
		words := config.Blocklist
		if len(words) == 0 {
			words = DefaultBlocklist
		}
		for _, word := range words {
			word = strings.ToLower(strings.TrimSpace(word))
			if word != "" {
				blocklist = append(blocklist, word)
			}
		}
	}

	return &RuleInspector{
		blocklist:      blocklist,
		checkInjection: !config.DisableInjection,
	}
}

// Inspect returns the first matching rule, or nil when the text passes.
func (r *RuleInspector) Inspect(text string) *RuleMatch {
	lower := strings.ToLower(text)
	for _, word := range r.blocklist {
		if strings.Contains(lower, word) {
			return &RuleMatch{
				Rule:   RuleBlocklist,
				Reason: "blocked due to prohibited keyword",
			}
		}
	}

	if r.checkInjection && sqlInjectionPattern.MatchString(text) {
		return &RuleMatch{
			Rule:   RuleSQLInjection,
			Reason: "SQL injection attempt detected",
		}
	}

	return nil
}
