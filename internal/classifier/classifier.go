package classifier

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/juandaherrera/finmail/internal/logging"
	"github.com/juandaherrera/finmail/internal/models"
)

// RuleProvider loads the ordered classification rules from wherever they
// are kept. Providers fail open: transport problems surface as an empty
// rule list, never as an error that would stop ingestion.
type RuleProvider interface {
	GetRules(ctx context.Context) []Rule
}

type compiledCondition struct {
	field   string
	pattern *regexp.Regexp
}

type compiledRule struct {
	conditions []compiledCondition
	category   string
}

// ruleSnapshot pairs a compiled rule set with its load time. Reloads
// replace the whole snapshot, so concurrent readers never observe a
// half-written cache.
type ruleSnapshot struct {
	rules    []compiledRule
	loadedAt time.Time
}

// TransactionClassifier evaluates classification rules against extracted
// transactions. Rules are compiled lazily, cached, and re-fetched from the
// provider once the cache age reaches the TTL. A zero TTL disables expiry.
type TransactionClassifier struct {
	provider RuleProvider
	ttl      time.Duration
	log      *logrus.Logger

	mu       sync.Mutex
	snapshot *ruleSnapshot

	now func() time.Time // overridable in tests
}

// New creates a classifier over the given provider. ttl bounds the age of
// the compiled rule cache; zero means the rules are loaded once per
// process.
func New(provider RuleProvider, ttl time.Duration) *TransactionClassifier {
	return &TransactionClassifier{
		provider: provider,
		ttl:      ttl,
		log:      logging.GetLogger(),
		now:      time.Now,
	}
}

// Classify applies the rules in provider order and returns a copy of the
// transaction with the category of the first rule whose conditions all
// match. A rule matches only when every condition matches (AND semantics);
// a condition on an absent field fails. When no rule matches, the
// transaction is returned unchanged.
func (c *TransactionClassifier) Classify(ctx context.Context, tx models.Transaction) models.Transaction {
	for _, rule := range c.currentRules(ctx) {
		if ruleMatches(rule, tx) {
			return tx.WithCategory(rule.category)
		}
	}
	return tx
}

func ruleMatches(rule compiledRule, tx models.Transaction) bool {
	for _, cond := range rule.conditions {
		value, ok := tx.Field(cond.field)
		if !ok {
			return false
		}
		if !cond.pattern.MatchString(value) {
			return false
		}
	}
	return true
}

// currentRules returns the cached compiled rules, reloading them first when
// the cache is empty or its age has reached the TTL. The reload runs under
// the mutex so at most one fetch-and-compile is in flight and the snapshot
// is swapped atomically.
func (c *TransactionClassifier) currentRules(ctx context.Context) []compiledRule {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil || c.expired() {
		rules := c.provider.GetRules(ctx)
		c.snapshot = &ruleSnapshot{
			rules:    c.compile(rules),
			loadedAt: c.now(),
		}
		c.log.WithField("rules", len(c.snapshot.rules)).Info("Loaded and compiled classification rules")
	}

	return c.snapshot.rules
}

// expired reports whether the cache age has reached the TTL. The boundary
// is strict: an age exactly equal to the TTL counts as expired.
func (c *TransactionClassifier) expired() bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(c.snapshot.loadedAt) >= c.ttl
}

// compile turns rules into their compiled form. Patterns compile
// case-insensitively. A rule is included only if all of its patterns
// compile; partial success drops the whole rule with a diagnostic.
func (c *TransactionClassifier) compile(rules []Rule) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))

	for _, rule := range rules {
		parsed, err := ParseConditions(rule.Conditions)
		if err != nil {
			c.log.WithError(err).WithField("conditions", rule.Conditions).Warn("Skipping malformed rule expression")
			continue
		}

		conditions := make([]compiledCondition, 0, len(parsed))
		for _, cond := range parsed {
			pattern, err := regexp.Compile("(?i)" + cond.Pattern)
			if err != nil {
				c.log.WithError(err).WithFields(logrus.Fields{
					"pattern": cond.Pattern,
					"field":   cond.Field,
				}).Warn("Skipping invalid regex pattern")
				continue
			}
			conditions = append(conditions, compiledCondition{field: cond.Field, pattern: pattern})
		}

		if len(conditions) == len(parsed) {
			compiled = append(compiled, compiledRule{conditions: conditions, category: rule.Category})
		}
	}

	return compiled
}
