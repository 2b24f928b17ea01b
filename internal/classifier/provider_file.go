package classifier

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/juandaherrera/finmail/internal/logging"
)

// FileRuleProvider loads classification rules from a YAML file. It serves
// deployments without a spreadsheet and local rule authoring:
//
//	- conditions: "merchant:.*uber.*"
//	  category: Transport
type FileRuleProvider struct {
	path string
	log  *logrus.Logger
}

// NewFileRuleProvider builds a provider over the given YAML file path.
func NewFileRuleProvider(path string) *FileRuleProvider {
	return &FileRuleProvider{path: path, log: logging.GetLogger()}
}

// GetRules implements RuleProvider with the same fail-open semantics as
// the spreadsheet provider: unreadable files yield an empty list, invalid
// entries are skipped with a diagnostic.
func (p *FileRuleProvider) GetRules(ctx context.Context) []Rule {
	data, err := os.ReadFile(p.path)
	if err != nil {
		p.log.WithError(err).WithField("path", p.path).Error("Failed to read rule file")
		return nil
	}

	var entries []Rule
	if err := yaml.Unmarshal(data, &entries); err != nil {
		p.log.WithError(err).WithField("path", p.path).Error("Failed to parse rule file")
		return nil
	}

	rules := make([]Rule, 0, len(entries))
	for i, entry := range entries {
		rule, err := NewRule(entry.Conditions, entry.Category)
		if err != nil {
			p.log.WithError(err).WithField("entry", i).Error("Skipping invalid rule entry")
			continue
		}
		rules = append(rules, rule)
	}

	p.log.WithFields(logrus.Fields{"path": p.path, "rules": len(rules)}).Info("Loaded classification rules from file")
	return rules
}
