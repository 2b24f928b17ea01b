package rappipayparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juandaherrera/finmail/internal/htmlutil"
)

const transferHTML = `<html><body>
<p>Subject: RappiPay - Transferencia bancaria</p>
<table>
  <tr><td><p>Monto recibido</p></td><td><p>$150.000</p></td></tr>
  <tr><td><p>Banco</p></td><td><p>Bancolombia</p></td></tr>
  <tr><td><p>Fecha de la transacción</p></td><td><p>30 de Enero de 2026</p></td></tr>
  <tr><td><p>Hora de la transacción</p></td><td><p>10:10 AM</p></td></tr>
</table>
</body></html>`

func testLocation() *time.Location {
	return time.FixedZone("-05", -5*3600)
}

func TestMatches(t *testing.T) {
	p := New(testLocation(), "Logged by finmail")

	assert.True(t, p.Matches("noreply@rappipay.co", "whatever", htmlutil.Parse("")))
	assert.True(t, p.Matches("RappiPay <noreply@rappipay.co>", "whatever", htmlutil.Parse("")))
	assert.True(t, p.Matches("me@gmail.com", "Fwd: whatever", htmlutil.Parse(transferHTML)))
	assert.True(t, p.Matches("me@gmail.com", "Fwd: RappiPay - Transferencia bancaria", htmlutil.Parse("")))
	assert.False(t, p.Matches("me@gmail.com", "Fwd: something else", htmlutil.Parse("")))
}

func TestParseTransfer(t *testing.T) {
	p := New(testLocation(), "Logged by finmail")
	doc := htmlutil.Parse(transferHTML)

	tx, err := p.Parse("noreply@rappipay.co", "Transferencia bancaria", doc, nil)
	require.NoError(t, err)

	// Inflow, so the amount keeps its positive sign.
	assert.Equal(t, "150000", tx.Amount.String())
	assert.Equal(t, "COP", tx.Currency)
	assert.Equal(t, "RappiPay", tx.Pocket)
	assert.Equal(t, "BANCOLOMBIA", tx.Merchant)
	assert.Equal(t, "Transferencia Bancaria from BANCOLOMBIA. Logged by finmail.", tx.Description)
	assert.Equal(t, time.Date(2026, 1, 30, 10, 10, 0, 0, testLocation()), tx.DateLocal)
}

func TestParseMissingAmountYieldsZero(t *testing.T) {
	p := New(testLocation(), "Logged by finmail")
	doc := htmlutil.Parse("<p>no labeled cells at all</p>")

	received := time.Date(2026, 3, 1, 8, 0, 0, 0, testLocation())
	tx, err := p.Parse("noreply@rappipay.co", "Transferencia bancaria", doc, &received)
	require.NoError(t, err)

	assert.True(t, tx.Amount.IsZero())
	assert.Equal(t, "Transferencia Bancaria", tx.Merchant)
	assert.Equal(t, "Transferencia Bancaria. Logged by finmail.", tx.Description)
	assert.Equal(t, received, tx.DateLocal)
}
