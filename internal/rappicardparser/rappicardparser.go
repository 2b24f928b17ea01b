// Package rappicardparser extracts card purchase transactions from
// RappiCard "Resumen de transacción" notification emails. Values sit in
// paragraph pairs inside table rows: the label paragraph is followed by the
// value paragraph in the same <tr>.
package rappicardparser

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/juandaherrera/finmail/internal/htmlutil"
	"github.com/juandaherrera/finmail/internal/logging"
	"github.com/juandaherrera/finmail/internal/models"
	"github.com/juandaherrera/finmail/internal/parsererror"
	"github.com/juandaherrera/finmail/internal/textutil"
)

const (
	parserName = "rappicard"
	currency   = "COP"
	pocket     = "RappiCard"
)

var senders = []string{
	"rappi.nreply@rappi.com",
	"noreply@rappicard.co",
}

var labels = map[string][]string{
	"amount":        {"monto"},
	"account_last4": {"método de pago", "metodo de pago"},
	"auth_code": {
		"no. de autorización",
		"numero de autorizacion",
		"n° de autorización",
	},
	"merchant":   {"comercio", "merchant"},
	"date_local": {"fecha de la transacción", "fecha de la transaccion"},
}

// Parser implements emailparser.Parser for RappiCard emails.
type Parser struct {
	loc       *time.Location
	signature string
	log       *logrus.Logger
}

// New creates a RappiCard parser that localizes dates to loc and stamps
// descriptions with signature.
func New(loc *time.Location, signature string) *Parser {
	return &Parser{loc: loc, signature: signature, log: logging.GetLogger()}
}

// Name implements emailparser.Parser.
func (p *Parser) Name() string { return parserName }

// Matches reports true for known RappiCard sender addresses, or for
// forwarded emails whose subject lines carry the RappiCard transaction
// summary keywords.
func (p *Parser) Matches(sender, subject string, doc *htmlutil.Document) bool {
	sender = strings.ToLower(sender)
	subject = strings.ToLower(subject)

	for _, d := range senders {
		if sender == d {
			return true
		}
	}

	fwdSubject := textutil.Normalize(doc.ForwardedSubject())
	if fwdSubject == "" {
		fwdSubject = subject
	}
	return strings.Contains(subject, "rappicard") &&
		strings.Contains(fwdSubject, "rappicard") &&
		strings.Contains(fwdSubject, "resumen de transaccion")
}

// Parse implements emailparser.Parser. The amount is an outflow, so its
// sign is fixed negative here.
func (p *Parser) Parse(sender, subject string, doc *htmlutil.Document, receivedAt *time.Time) (models.Transaction, error) {
	amountStr, ok := doc.FindRowValueByLabel(labels["amount"])
	if !ok {
		return models.Transaction{}, &parsererror.ExtractionError{
			Parser: parserName,
			Field:  "amount",
			Reason: "label not found in email body",
		}
	}

	amount, err := textutil.AmountFromString(amountStr, ".", ",", "$")
	if err != nil {
		return models.Transaction{}, &parsererror.ExtractionError{
			Parser: parserName,
			Field:  "amount",
			Err:    err,
		}
	}

	merchant, _ := doc.FindRowValueByLabel(labels["merchant"])
	authCode, _ := doc.FindRowValueByLabel(labels["auth_code"])
	last4, _ := doc.FindRowValueByLabel(labels["account_last4"])
	last4 = strings.TrimSpace(strings.ReplaceAll(last4, "*", ""))

	dateLocal := p.resolveDate(doc, receivedAt)

	return models.Transaction{
		DateLocal:    dateLocal,
		Pocket:       pocket,
		Currency:     currency,
		Amount:       amount.Neg(),
		Merchant:     merchant,
		AccountLast4: last4,
		AuthCode:     authCode,
		Description:  fmt.Sprintf("Purchase at %s. %s.", merchant, p.signature),
	}, nil
}

// resolveDate reads the transaction date from the body, falling back to the
// email's reception time and finally to now.
func (p *Parser) resolveDate(doc *htmlutil.Document, receivedAt *time.Time) time.Time {
	if dateStr, ok := doc.FindRowValueByLabel(labels["date_local"]); ok {
		if t, ok := textutil.ParseSpanishDate(dateStr, p.loc); ok {
			return t
		}
		p.log.WithField("date", dateStr).Warn("Could not parse RappiCard transaction date")
	}
	if receivedAt != nil {
		return *receivedAt
	}
	return time.Now().In(p.loc)
}
