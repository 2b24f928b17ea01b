// Package classifier assigns spending categories to transactions by
// evaluating ordered, multi-condition regex rules loaded from a rule
// provider, with a time-bounded cache of the compiled rule set.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/juandaherrera/finmail/internal/parsererror"
)

// Rule is one configurable classification rule: a condition expression of
// the form "field:pattern [AND field:pattern ...]" plus the category to
// assign when every condition matches.
type Rule struct {
	Conditions string `yaml:"conditions"`
	Category   string `yaml:"category"`
}

// Condition is a single parsed (field, pattern) pair of a rule expression.
type Condition struct {
	Field   string
	Pattern string
}

// ParseConditions splits a rule expression into its conditions. The split
// token is the literal " AND "; each condition splits on its first colon
// only, so regex patterns may themselves contain colons.
func ParseConditions(expression string) ([]Condition, error) {
	parts := strings.Split(expression, " AND ")
	conditions := make([]Condition, 0, len(parts))

	for _, part := range parts {
		condition := strings.TrimSpace(part)
		field, pattern, found := strings.Cut(condition, ":")
		if !found {
			return nil, &parsererror.RuleError{
				Expression: expression,
				Reason:     fmt.Sprintf("condition %q has no colon, expected 'field:pattern'", condition),
			}
		}
		conditions = append(conditions, Condition{
			Field:   strings.TrimSpace(field),
			Pattern: strings.TrimSpace(pattern),
		})
	}

	return conditions, nil
}

// NewRule validates and builds a rule. The expression must parse into at
// least one condition and every pattern must compile as a regular
// expression; invalid rules are rejected here, never at evaluation time.
func NewRule(conditions, category string) (Rule, error) {
	parsed, err := ParseConditions(conditions)
	if err != nil {
		return Rule{}, err
	}

	for _, c := range parsed {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return Rule{}, &parsererror.RuleError{
				Expression: conditions,
				Reason:     fmt.Sprintf("invalid regex pattern for field %q", c.Field),
				Err:        err,
			}
		}
	}

	return Rule{Conditions: conditions, Category: category}, nil
}
