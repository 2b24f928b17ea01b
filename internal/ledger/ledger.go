// Package ledger implements a local CSV transaction sink with the same row
// shape as the spreadsheet sink, for deployments and dry runs without a
// spreadsheet.
package ledger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/juandaherrera/finmail/internal/models"
)

// Row is the CSV rendering of one transaction.
type Row struct {
	Date        string `csv:"Date"`
	Pocket      string `csv:"Pocket"`
	Category    string `csv:"Category"`
	Currency    string `csv:"Currency"`
	Amount      string `csv:"Amount"`
	Reserved    string `csv:"Reserved"`
	Description string `csv:"Description"`
}

func rowFromTransaction(tx models.Transaction) *Row {
	values := tx.RowValues()
	return &Row{
		Date:        values[0],
		Pocket:      values[1],
		Category:    values[2],
		Currency:    values[3],
		Amount:      values[4],
		Reserved:    values[5],
		Description: values[6],
	}
}

// Writer appends transactions to a CSV file, writing the header when the
// file is new.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter creates a CSV sink at the given path. The file is created on
// first append.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Append writes the transaction as one CSV row.
func (w *Writer) Append(ctx context.Context, tx models.Transaction) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, statErr := os.Stat(w.path)
	writeHeader := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger file: %w", err)
	}
	defer f.Close()

	rows := []*Row{rowFromTransaction(tx)}
	if writeHeader {
		if err := gocsv.MarshalFile(&rows, f); err != nil {
			return fmt.Errorf("writing ledger row: %w", err)
		}
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(&rows, f); err != nil {
		return fmt.Errorf("writing ledger row: %w", err)
	}
	return nil
}
