// Package emailparser defines the parser capability set and the ordered
// registry that dispatches incoming emails to the first matching parser.
package emailparser

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/juandaherrera/finmail/internal/htmlutil"
	"github.com/juandaherrera/finmail/internal/logging"
	"github.com/juandaherrera/finmail/internal/models"
)

// Parser recognizes and extracts transactions from one email source.
// Implementations must never panic on a missing or empty body; Matches
// degrades gracefully when the forwarded subject is absent.
type Parser interface {
	// Name identifies the parser in logs and errors.
	Name() string

	// Matches reports whether this parser can handle the given email.
	Matches(sender, subject string, doc *htmlutil.Document) bool

	// Parse extracts a transaction from the email. It returns an
	// *parsererror.ExtractionError when a required field cannot be
	// located.
	Parse(sender, subject string, doc *htmlutil.Document, receivedAt *time.Time) (models.Transaction, error)
}

// Registry holds an explicit ordered collection of parsers. Registration
// order is priority order: Detect always returns the first parser whose
// Matches reports true, so dispatch is deterministic even when several
// predicates overlap.
type Registry struct {
	parsers []Parser
	log     *logrus.Logger
}

// NewRegistry builds a registry over the given parsers, in priority order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers, log: logging.GetLogger()}
}

// Names lists the registered parser names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.parsers))
	for i, p := range r.parsers {
		names[i] = p.Name()
	}
	return names
}

// Detect returns the first registered parser that matches the email. A
// miss is not a fault: it is logged with full context so new sources can be
// spotted, and reported through the boolean.
func (r *Registry) Detect(sender, subject string, doc *htmlutil.Document) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Matches(sender, subject, doc) {
			return p, true
		}
	}
	r.log.WithFields(logrus.Fields{
		"sender":  sender,
		"subject": subject,
		"parsers": r.Names(),
	}).Warn("No suitable parser found for email")
	return nil, false
}
