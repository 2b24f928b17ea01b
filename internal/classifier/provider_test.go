package classifier

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRowReader struct {
	rows [][]string
	err  error
}

func (s *stubRowReader) ReadAll(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error) {
	return s.rows, s.err
}

func TestSheetsProviderSkipsBadRows(t *testing.T) {
	reader := &stubRowReader{rows: [][]string{
		{"Conditions", "Category"},
		{"merchant:.*uber.*", "Transport"},
		{"", ""},
		{"only-one-column"},
		{"   ", "Blank Conditions"},
		{"merchant:[unclosed", "Broken Regex"},
		{"pocket:RappiPay", "Transfers"},
	}}
	provider := NewSheetsRuleProvider(reader, "sheet-id", "Rules")

	rules := provider.GetRules(context.Background())
	require.Len(t, rules, 2)
	assert.Equal(t, "Transport", rules[0].Category)
	assert.Equal(t, "Transfers", rules[1].Category)
}

func TestSheetsProviderFailsOpen(t *testing.T) {
	reader := &stubRowReader{err: errors.New("network down")}
	provider := NewSheetsRuleProvider(reader, "sheet-id", "Rules")

	assert.Empty(t, provider.GetRules(context.Background()))
}

func TestSheetsProviderHeaderOnly(t *testing.T) {
	reader := &stubRowReader{rows: [][]string{{"Conditions", "Category"}}}
	provider := NewSheetsRuleProvider(reader, "sheet-id", "Rules")

	assert.Empty(t, provider.GetRules(context.Background()))
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `- conditions: "merchant:.*uber.*"
  category: Transport
- conditions: "merchant:[unclosed"
  category: Broken
- conditions: "pocket:RappiPay AND amount:^[0-9]"
  category: Income
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	provider := NewFileRuleProvider(path)
	rules := provider.GetRules(context.Background())

	require.Len(t, rules, 2)
	assert.Equal(t, "Transport", rules[0].Category)
	assert.Equal(t, "Income", rules[1].Category)
}

func TestFileProviderFailsOpen(t *testing.T) {
	provider := NewFileRuleProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Empty(t, provider.GetRules(context.Background()))

	path := filepath.Join(t.TempDir(), "garbage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\tnot yaml"), 0o600))
	provider = NewFileRuleProvider(path)
	assert.Empty(t, provider.GetRules(context.Background()))
}
