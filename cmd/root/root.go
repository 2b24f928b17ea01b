// Package root contains the root command for the application.
package root

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/juandaherrera/finmail/internal/classifier"
	"github.com/juandaherrera/finmail/internal/config"
	"github.com/juandaherrera/finmail/internal/emailparser"
	"github.com/juandaherrera/finmail/internal/ingest"
	"github.com/juandaherrera/finmail/internal/ledger"
	"github.com/juandaherrera/finmail/internal/logging"
	"github.com/juandaherrera/finmail/internal/rappicardparser"
	"github.com/juandaherrera/finmail/internal/rappipayparser"
	"github.com/juandaherrera/finmail/internal/remotepassparser"
	"github.com/juandaherrera/finmail/internal/sheets"
)

var (
	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRunE.
	Cfg *config.Config

	// Log is the shared logger instance for commands.
	Log *logrus.Logger

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "finmail",
		Short: "Turn bank notification emails into classified ledger transactions.",
		Long: `finmail ingests notification emails from banking and fintech senders,
extracts structured transactions from their HTML bodies, classifies them
with configurable pattern rules, and appends them to a spreadsheet or CSV
ledger.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.Configure(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finmail!")
			Log.Info("Use --help to see available commands")
		},
	}
)

// NewRegistry builds the ordered parser registry. Registration order is
// dispatch priority.
func NewRegistry() (*emailparser.Registry, error) {
	loc, err := Cfg.Location()
	if err != nil {
		return nil, err
	}
	sig := Cfg.ServiceSignature
	return emailparser.NewRegistry(
		rappicardparser.New(loc, sig),
		rappipayparser.New(loc, sig),
		remotepassparser.New(loc, sig),
	), nil
}

// NewRuleProvider builds the configured rule provider: the spreadsheet
// when one is configured, otherwise the YAML rule file, otherwise nil.
func NewRuleProvider(ctx context.Context) (classifier.RuleProvider, error) {
	if Cfg.Sheets.SpreadsheetID != "" {
		client, err := sheets.NewClient(ctx, []byte(Cfg.Sheets.CredentialsJSON))
		if err != nil {
			return nil, fmt.Errorf("building sheets client: %w", err)
		}
		return classifier.NewSheetsRuleProvider(client, Cfg.Sheets.SpreadsheetID, Cfg.Sheets.RulesWorksheet), nil
	}
	if Cfg.Rules.File != "" {
		return classifier.NewFileRuleProvider(Cfg.Rules.File), nil
	}
	return nil, nil
}

// NewService assembles the full ingest pipeline from the configuration.
func NewService(ctx context.Context) (*ingest.Service, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}

	var cls *classifier.TransactionClassifier
	provider, err := NewRuleProvider(ctx)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		cls = classifier.New(provider, Cfg.RuleCacheTTL())
	} else {
		Log.Warn("No rule source configured, transactions will stay unclassified")
	}

	var sink ingest.Sink
	switch {
	case Cfg.Sheets.SpreadsheetID != "":
		client, err := sheets.NewClient(ctx, []byte(Cfg.Sheets.CredentialsJSON))
		if err != nil {
			return nil, fmt.Errorf("building sheets client: %w", err)
		}
		sink = &sheets.TransactionSink{
			Client:        client,
			SpreadsheetID: Cfg.Sheets.SpreadsheetID,
			Worksheet:     Cfg.Sheets.Worksheet,
		}
	case Cfg.Ledger.CSVPath != "":
		sink = ledger.NewWriter(Cfg.Ledger.CSVPath)
	default:
		Log.Warn("No sink configured, transactions will not be persisted")
	}

	loc, err := Cfg.Location()
	if err != nil {
		return nil, err
	}

	return ingest.NewService(registry, cls, sink, loc, Cfg.DefaultCategory), nil
}
