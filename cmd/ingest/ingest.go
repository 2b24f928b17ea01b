// Package ingest processes a single payload file from disk, mainly for
// local testing of parser and rule changes.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/juandaherrera/finmail/cmd/root"
	"github.com/juandaherrera/finmail/internal/models"
)

var inputFile string

// Cmd is the ingest command.
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Process one email payload JSON file and print the extracted transaction.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("reading payload file: %w", err)
		}

		var payload models.EmailPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parsing payload file: %w", err)
		}
		if err := payload.Validate(); err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}

		service, err := root.NewService(cmd.Context())
		if err != nil {
			return err
		}

		tx, err := service.Process(cmd.Context(), payload)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(tx, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Path to the email payload JSON file")
	_ = Cmd.MarkFlagRequired("file")
}
