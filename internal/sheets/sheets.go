// Package sheets implements the spreadsheet store used both as the
// classification rule source and as the transaction sink.
package sheets

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/juandaherrera/finmail/internal/logging"
	"github.com/juandaherrera/finmail/internal/models"
)

var spreadsheetURLRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// ExtractSpreadsheetID accepts either a bare spreadsheet ID or a full
// spreadsheet URL and returns the ID.
func ExtractSpreadsheetID(identifier string) string {
	if match := spreadsheetURLRe.FindStringSubmatch(identifier); match != nil {
		return match[1]
	}
	return identifier
}

// Client talks to the Google Sheets API with service account credentials.
type Client struct {
	svc *gsheets.Service
	log *logrus.Logger
}

// NewClient authorizes against the Sheets API using a service account JSON
// key.
func NewClient(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	jwt, err := google.JWTConfigFromJSON(credentialsJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Client{svc: svc, log: logging.GetLogger()}, nil
}

// ReadAll returns every row of the worksheet as string cells, preserving
// row order.
func (c *Client) ReadAll(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error) {
	id := ExtractSpreadsheetID(spreadsheetID)

	resp, err := c.svc.Spreadsheets.Values.Get(id, worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", worksheet, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

// AppendRow appends one row of values after the last filled row of the
// worksheet.
func (c *Client) AppendRow(ctx context.Context, spreadsheetID, worksheet string, values []string) error {
	id := ExtractSpreadsheetID(spreadsheetID)

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(id, worksheet, &gsheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending row to worksheet %q: %w", worksheet, err)
	}
	return nil
}

// TransactionSink appends transactions to one worksheet in the row shape
// the ledger spreadsheet expects.
type TransactionSink struct {
	Client        *Client
	SpreadsheetID string
	Worksheet     string
}

// Append writes the transaction as a new row.
func (s *TransactionSink) Append(ctx context.Context, tx models.Transaction) error {
	return s.Client.AppendRow(ctx, s.SpreadsheetID, s.Worksheet, tx.RowValues())
}
