// Package rappipayparser extracts incoming bank transfers from RappiPay
// "Transferencia bancaria" notification emails. Values sit in sibling table
// cells: the cell holding the label paragraph is followed by the value cell
// in the same <tr>.
package rappipayparser

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/juandaherrera/finmail/internal/htmlutil"
	"github.com/juandaherrera/finmail/internal/logging"
	"github.com/juandaherrera/finmail/internal/models"
	"github.com/juandaherrera/finmail/internal/textutil"
)

const (
	parserName = "rappipay"
	currency   = "COP"
	pocket     = "RappiPay"
)

var senders = []string{"noreply@rappipay.co"}

var labels = map[string][]string{
	"amount": {"monto recibido"},
	"date":   {"fecha de la transacción", "fecha de la transaccion"},
	"time":   {"hora de la transacción", "hora de la transaccion"},
	"bank":   {"banco"},
}

// Parser implements emailparser.Parser for RappiPay emails.
type Parser struct {
	loc       *time.Location
	signature string
	log       *logrus.Logger
}

// New creates a RappiPay parser that localizes dates to loc and stamps
// descriptions with signature.
func New(loc *time.Location, signature string) *Parser {
	return &Parser{loc: loc, signature: signature, log: logging.GetLogger()}
}

// Name implements emailparser.Parser.
func (p *Parser) Name() string { return parserName }

// Matches reports true when the sender contains a known RappiPay address,
// or when the forwarded (or raw) subject carries the bank transfer
// keywords.
func (p *Parser) Matches(sender, subject string, doc *htmlutil.Document) bool {
	sender = strings.ToLower(sender)
	subject = strings.ToLower(subject)

	for _, d := range senders {
		if strings.Contains(sender, d) {
			return true
		}
	}

	fwdSubject := textutil.Normalize(doc.ForwardedSubject())
	if fwdSubject == "" {
		fwdSubject = subject
	}
	return strings.Contains(fwdSubject, "rappipay") &&
		strings.Contains(fwdSubject, "transferencia bancaria")
}

// Parse implements emailparser.Parser. Transfers are inflows, so the amount
// keeps its positive sign; a missing amount label yields zero, matching the
// upstream notification variants that omit it.
func (p *Parser) Parse(sender, subject string, doc *htmlutil.Document, receivedAt *time.Time) (models.Transaction, error) {
	amountStr := normalizedCell(doc, labels["amount"])
	dateStr := normalizedCell(doc, labels["date"])
	timeStr := normalizedCell(doc, labels["time"])
	bankStr := normalizedCell(doc, labels["bank"])

	amount := decimal.Zero
	if amountStr != "" {
		parsed, err := textutil.AmountFromString(amountStr, ".", ",", "$")
		if err != nil {
			p.log.WithField("amount", amountStr).Warn("Could not parse RappiPay amount")
		} else {
			amount = parsed
		}
	}

	dateLocal, ok := textutil.ParseSpanishDateTime(dateStr, timeStr, p.loc)
	if !ok {
		if receivedAt != nil {
			dateLocal = *receivedAt
		} else {
			dateLocal = time.Now().In(p.loc)
		}
	}

	merchant := "Transferencia Bancaria"
	description := "Transferencia Bancaria"
	if bankStr != "" {
		merchant = strings.ToUpper(bankStr)
		description += " from " + merchant
	}
	description += ". " + p.signature + "."

	return models.Transaction{
		DateLocal:   dateLocal,
		Pocket:      pocket,
		Currency:    currency,
		Amount:      amount,
		Merchant:    merchant,
		Description: description,
	}, nil
}

func normalizedCell(doc *htmlutil.Document, variants []string) string {
	value, ok := doc.FindSiblingCellByLabel(variants)
	if !ok {
		return ""
	}
	return textutil.Normalize(value)
}
