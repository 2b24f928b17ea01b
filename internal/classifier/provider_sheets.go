package classifier

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/juandaherrera/finmail/internal/logging"
)

// RowReader reads all rows from one worksheet of a spreadsheet-shaped
// store, preserving row order.
type RowReader interface {
	ReadAll(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error)
}

// SheetsRuleProvider loads classification rules from a spreadsheet
// worksheet. Expected layout: first row is a header and is skipped; column
// 1 holds the condition expression, column 2 the target category.
type SheetsRuleProvider struct {
	reader        RowReader
	spreadsheetID string
	worksheet     string
	log           *logrus.Logger
}

// NewSheetsRuleProvider builds a provider over the given row reader.
func NewSheetsRuleProvider(reader RowReader, spreadsheetID, worksheet string) *SheetsRuleProvider {
	return &SheetsRuleProvider{
		reader:        reader,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		log:           logging.GetLogger(),
	}
}

// GetRules implements RuleProvider. Rows that are empty, too short, blank
// in a required column, or invalid as rules are skipped with a diagnostic.
// A transport failure yields an empty rule list so classification degrades
// to a no-op instead of crashing the pipeline.
func (p *SheetsRuleProvider) GetRules(ctx context.Context) []Rule {
	rows, err := p.reader.ReadAll(ctx, p.spreadsheetID, p.worksheet)
	if err != nil {
		p.log.WithError(err).Error("Failed to load classification rules from spreadsheet")
		return nil
	}

	if len(rows) <= 1 {
		return nil
	}

	var rules []Rule
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		if isBlankRow(row) {
			continue
		}

		if len(row) < 2 {
			p.log.WithFields(logrus.Fields{
				"row":  rowNum,
				"cols": len(row),
			}).Warn("Skipping rule row: insufficient columns")
			continue
		}

		conditions := strings.TrimSpace(row[0])
		category := strings.TrimSpace(row[1])
		if conditions == "" || category == "" {
			p.log.WithField("row", rowNum).Warn("Skipping rule row: empty required field(s)")
			continue
		}

		rule, err := NewRule(conditions, category)
		if err != nil {
			p.log.WithError(err).WithField("row", rowNum).Error("Skipping invalid rule row")
			continue
		}
		rules = append(rules, rule)
	}

	p.log.WithField("rules", len(rules)).Info("Loaded classification rules from spreadsheet")
	return rules
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
