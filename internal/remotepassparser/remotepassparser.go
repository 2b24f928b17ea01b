// Package remotepassparser extracts transactions from RemotePass emails.
// RemotePass notifications are free text, so fields are pulled with regular
// expressions over the whole body instead of label-anchored cell lookups.
package remotepassparser

import (
	"fmt"
	"regexp"
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
	parserName = "remotepass"
	currency   = "USD"
)

var senders = []string{"no-reply@remotepass.team"}

// paymentAmountRe matches "Payment Amount: $250" in payment-received
// emails.
var paymentAmountRe = regexp.MustCompile(`(?i)Payment\s+Amount:\s*\$([\d\.,]+)`)

// withdrawalRe matches the card purchase sentence, e.g.
// "a payment of 12.50 USD at ACME STORE on 15/03/2026 at 14:05 UTC".
var withdrawalRe = regexp.MustCompile(`(?is)payment\s+of\s+([\d\.,]+)\s*(USD|EUR|COP|GBP)\s+at\s+(.+?)\s+on\s+(\d{2}/\d{2}/\d{4})\s+at\s+(\d{2}:\d{2})\s*UTC`)

// Parser implements emailparser.Parser for RemotePass emails.
type Parser struct {
	loc       *time.Location
	signature string
	log       *logrus.Logger
}

// New creates a RemotePass parser that localizes dates to loc and stamps
// descriptions with signature.
func New(loc *time.Location, signature string) *Parser {
	return &Parser{loc: loc, signature: signature, log: logging.GetLogger()}
}

// Name implements emailparser.Parser.
func (p *Parser) Name() string { return parserName }

// Matches reports true for the RemotePass sender address or for any body
// whose normalized text mentions RemotePass.
func (p *Parser) Matches(sender, subject string, doc *htmlutil.Document) bool {
	sender = strings.ToLower(sender)
	for _, d := range senders {
		if sender == d {
			return true
		}
	}
	return strings.Contains(textutil.Normalize(doc.Text(" ")), "remotepass")
}

// Parse implements emailparser.Parser. Payment-received emails are inflows,
// card purchase emails are outflows.
func (p *Parser) Parse(sender, subject string, doc *htmlutil.Document, receivedAt *time.Time) (models.Transaction, error) {
	if strings.Contains(strings.ToLower(subject), "payment received") {
		return p.parsePayment(doc, receivedAt)
	}
	return p.parseWithdrawal(doc)
}

func (p *Parser) parsePayment(doc *htmlutil.Document, receivedAt *time.Time) (models.Transaction, error) {
	match := paymentAmountRe.FindStringSubmatch(doc.Text(" "))
	if match == nil {
		p.log.Warn("RemotePass: could not extract payment amount")
		return models.Transaction{}, &parsererror.ExtractionError{
			Parser: parserName,
			Field:  "amount",
			Reason: "payment amount pattern not found",
		}
	}

	amount, err := textutil.AmountFromString(match[1], ",", ".", "$")
	if err != nil {
		return models.Transaction{}, &parsererror.ExtractionError{
			Parser: parserName,
			Field:  "amount",
			Err:    err,
		}
	}

	// Payment emails carry no date of their own.
	dateLocal := time.Now().In(p.loc)
	if receivedAt != nil {
		dateLocal = *receivedAt
	}

	return models.Transaction{
		DateLocal:   dateLocal,
		Pocket:      "RemotePass",
		Currency:    currency,
		Amount:      amount,
		Merchant:    "RemotePass",
		Description: fmt.Sprintf("Payment received. %s.", p.signature),
	}, nil
}

func (p *Parser) parseWithdrawal(doc *htmlutil.Document) (models.Transaction, error) {
	match := withdrawalRe.FindStringSubmatch(doc.Text(" "))
	if match == nil {
		p.log.Warn("RemotePass: could not extract transaction data")
		return models.Transaction{}, &parsererror.ExtractionError{
			Parser: parserName,
			Field:  "amount",
			Reason: "card payment pattern not found",
		}
	}

	amountStr, merchant, dateStr, timeStr := match[1], match[3], match[4], match[5]
	merchant = strings.Join(strings.Fields(merchant), " ")

	amount, err := textutil.AmountFromString(amountStr, ",", ".", "$")
	if err != nil {
		return models.Transaction{}, &parsererror.ExtractionError{
			Parser: parserName,
			Field:  "amount",
			Err:    err,
		}
	}

	// The email states the time in UTC.
	dtUTC, err := time.ParseInLocation("02/01/2006 15:04", dateStr+" "+timeStr, time.UTC)
	if err != nil {
		return models.Transaction{}, &parsererror.ExtractionError{
			Parser: parserName,
			Field:  "date_local",
			Err:    err,
		}
	}

	return models.Transaction{
		DateLocal:   dtUTC.In(p.loc),
		Pocket:      "RemotePass Cards",
		Currency:    currency,
		Amount:      amount.Neg(),
		Merchant:    merchant,
		Description: fmt.Sprintf("Purchase at %s. %s.", merchant, p.signature),
	}, nil
}
