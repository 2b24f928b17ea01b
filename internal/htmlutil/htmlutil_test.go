package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rowLayoutHTML = `<html><body>
<p>Subject: RappiCard - Resumen de transacción</p>
<table>
  <tr><td><p>Monto</p></td><td><p>$33.000</p></td></tr>
  <tr><td><p>Comercio</p></td><td><p>BELLEZA Y ESTILO</p></td></tr>
  <tr><td><p>Método de pago</p></td><td><p>**** 1234</p></td></tr>
</table>
<script>var tracked = true;</script>
<style>p { color: red; }</style>
</body></html>`

const siblingCellHTML = `<html><body>
<table>
  <tr><td><p>Monto recibido</p></td><td><p>$150.000</p></td></tr>
  <tr><td><p>Banco</p></td><td><p>Bancolombia</p></td></tr>
  <tr><td><p>Sin valor</p></td></tr>
</table>
</body></html>`

func TestParseTolerant(t *testing.T) {
	doc := Parse("")
	assert.Equal(t, "", doc.Text(" "))

	doc = Parse("<p>unclosed paragraph")
	assert.Equal(t, "unclosed paragraph", doc.Text(" "))
}

func TestScriptAndStyleStripped(t *testing.T) {
	doc := Parse(rowLayoutHTML)
	text := doc.Text(" ")
	assert.NotContains(t, text, "tracked")
	assert.NotContains(t, text, "color: red")
	assert.Contains(t, text, "BELLEZA Y ESTILO")
}

func TestForwardedSubject(t *testing.T) {
	doc := Parse(rowLayoutHTML)
	assert.Equal(t, "RappiCard - Resumen de transacción", doc.ForwardedSubject())

	doc = Parse("<p>no subject marker here</p>")
	assert.Equal(t, "", doc.ForwardedSubject())
}

func TestFindRowValueByLabel(t *testing.T) {
	doc := Parse(rowLayoutHTML)

	value, ok := doc.FindRowValueByLabel([]string{"monto"})
	require.True(t, ok)
	assert.Equal(t, "$33.000", value)

	// Accents and case on the label never affect the match.
	value, ok = doc.FindRowValueByLabel([]string{"metodo de pago", "método de pago"})
	require.True(t, ok)
	assert.Equal(t, "**** 1234", value)

	_, ok = doc.FindRowValueByLabel([]string{"no such label"})
	assert.False(t, ok)
}

func TestFindSiblingCellByLabel(t *testing.T) {
	doc := Parse(siblingCellHTML)

	value, ok := doc.FindSiblingCellByLabel([]string{"monto recibido"})
	require.True(t, ok)
	assert.Equal(t, "$150.000", value)

	value, ok = doc.FindSiblingCellByLabel([]string{"banco"})
	require.True(t, ok)
	assert.Equal(t, "Bancolombia", value)

	// A label with no following cell degrades to "not found".
	_, ok = doc.FindSiblingCellByLabel([]string{"sin valor"})
	assert.False(t, ok)
}
