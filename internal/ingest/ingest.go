// Package ingest wires the pipeline together: dispatch the email to a
// parser, extract a transaction, classify it, and hand it to the sink.
package ingest

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/juandaherrera/finmail/internal/classifier"
	"github.com/juandaherrera/finmail/internal/emailparser"
	"github.com/juandaherrera/finmail/internal/htmlutil"
	"github.com/juandaherrera/finmail/internal/logging"
	"github.com/juandaherrera/finmail/internal/models"
	"github.com/juandaherrera/finmail/internal/parsererror"
)

// Sink persists extracted transactions. Persistence is best effort: a sink
// failure is logged and does not fail the ingest.
type Sink interface {
	Append(ctx context.Context, tx models.Transaction) error
}

// Service runs the full ingest pipeline for one email payload at a time.
// Classifier and sink are optional collaborators.
type Service struct {
	registry        *emailparser.Registry
	classifier      *classifier.TransactionClassifier
	sink            Sink
	loc             *time.Location
	defaultCategory string
	log             *logrus.Logger
}

// NewService builds the pipeline. classifier and sink may be nil, in which
// case the corresponding step is skipped.
func NewService(registry *emailparser.Registry, cls *classifier.TransactionClassifier, sink Sink, loc *time.Location, defaultCategory string) *Service {
	if defaultCategory == "" {
		defaultCategory = models.CategoryPending
	}
	return &Service{
		registry:        registry,
		classifier:      cls,
		sink:            sink,
		loc:             loc,
		defaultCategory: defaultCategory,
		log:             logging.GetLogger(),
	}
}

// Process turns one email payload into a transaction. It returns a
// *parsererror.NoParserError when no source matches and propagates
// extraction errors from the matched parser; classification and
// persistence failures never fail the ingest.
func (s *Service) Process(ctx context.Context, payload models.EmailPayload) (models.Transaction, error) {
	doc := htmlutil.Parse(payload.HTML)
	receivedAt := payload.ReceivedAtIn(s.loc)

	parser, ok := s.registry.Detect(payload.Sender, payload.Subject, doc)
	if !ok {
		return models.Transaction{}, &parsererror.NoParserError{
			Sender:  payload.Sender,
			Subject: payload.Subject,
		}
	}

	tx, err := parser.Parse(payload.Sender, payload.Subject, doc, receivedAt)
	if err != nil {
		return models.Transaction{}, err
	}

	if tx.Category == "" {
		tx.Category = s.defaultCategory
	}

	tx = s.classify(ctx, tx)

	if s.sink != nil {
		if err := s.sink.Append(ctx, tx); err != nil {
			s.log.WithError(err).Error("Failed to persist transaction")
		}
	}

	return tx, nil
}

// classify applies the classifier when one is configured. Any failure is
// isolated to this transaction: it is logged and the transaction proceeds
// unclassified.
func (s *Service) classify(ctx context.Context, tx models.Transaction) (result models.Transaction) {
	if s.classifier == nil {
		return tx
	}

	result = tx
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Warn("Error classifying transaction, skipping")
			result = tx
		}
	}()

	return s.classifier.Classify(ctx, tx)
}
