package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juandaherrera/finmail/internal/classifier"
	"github.com/juandaherrera/finmail/internal/emailparser"
	"github.com/juandaherrera/finmail/internal/models"
	"github.com/juandaherrera/finmail/internal/parsererror"
	"github.com/juandaherrera/finmail/internal/rappicardparser"
)

const purchaseHTML = `<html><body>
<table>
  <tr><td><p>Monto</p></td><td><p>$33.000</p></td></tr>
  <tr><td><p>Comercio</p></td><td><p>UBER TRIP</p></td></tr>
  <tr><td><p>Fecha de la transacción</p></td><td><p>30 de enero de 2026</p></td></tr>
</table>
</body></html>`

type capturingSink struct {
	appended []models.Transaction
	err      error
}

func (s *capturingSink) Append(ctx context.Context, tx models.Transaction) error {
	s.appended = append(s.appended, tx)
	return s.err
}

func newTestService(t *testing.T, sink Sink) *Service {
	t.Helper()
	loc := time.FixedZone("-05", -5*3600)

	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	content := `- conditions: "merchant:.*uber.*"
  category: Transport
`
	require.NoError(t, os.WriteFile(rulesPath, []byte(content), 0o600))

	registry := emailparser.NewRegistry(rappicardparser.New(loc, "Logged by finmail"))
	cls := classifier.New(classifier.NewFileRuleProvider(rulesPath), 0)
	return NewService(registry, cls, sink, loc, models.CategoryPending)
}

func TestProcessEndToEnd(t *testing.T) {
	sink := &capturingSink{}
	svc := newTestService(t, sink)

	tx, err := svc.Process(context.Background(), models.EmailPayload{
		Subject: "RappiCard - Resumen de transacción",
		Sender:  "rappi.nreply@rappi.com",
		HTML:    purchaseHTML,
	})
	require.NoError(t, err)

	assert.Equal(t, "-33000", tx.Amount.String())
	assert.Equal(t, "Transport", tx.Category)
	assert.Equal(t, "UBER TRIP", tx.Merchant)

	require.Len(t, sink.appended, 1)
	assert.Equal(t, tx, sink.appended[0])
}

func TestProcessUnknownSender(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Process(context.Background(), models.EmailPayload{
		Subject: "Your receipt",
		Sender:  "billing@unknown.example",
		HTML:    "<p>hello</p>",
	})
	require.Error(t, err)

	var noParser *parsererror.NoParserError
	assert.True(t, errors.As(err, &noParser))
}

func TestProcessPropagatesExtractionError(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Process(context.Background(), models.EmailPayload{
		Subject: "RappiCard - Resumen de transacción",
		Sender:  "rappi.nreply@rappi.com",
		HTML:    "<p>no amount anywhere</p>",
	})
	require.Error(t, err)

	var extraction *parsererror.ExtractionError
	assert.True(t, errors.As(err, &extraction))
}

func TestProcessSinkFailureDoesNotFailIngest(t *testing.T) {
	sink := &capturingSink{err: errors.New("disk full")}
	svc := newTestService(t, sink)

	tx, err := svc.Process(context.Background(), models.EmailPayload{
		Subject: "RappiCard - Resumen de transacción",
		Sender:  "rappi.nreply@rappi.com",
		HTML:    purchaseHTML,
	})
	require.NoError(t, err)
	assert.Equal(t, "Transport", tx.Category)
}

func TestProcessWithoutClassifierKeepsDefaultCategory(t *testing.T) {
	loc := time.FixedZone("-05", -5*3600)
	registry := emailparser.NewRegistry(rappicardparser.New(loc, "Logged by finmail"))
	svc := NewService(registry, nil, nil, loc, "")

	tx, err := svc.Process(context.Background(), models.EmailPayload{
		Subject: "RappiCard - Resumen de transacción",
		Sender:  "rappi.nreply@rappi.com",
		HTML:    purchaseHTML,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryPending, tx.Category)
}
