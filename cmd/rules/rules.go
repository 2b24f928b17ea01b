// Package rules inspects and validates classification rules.
package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juandaherrera/finmail/cmd/root"
	"github.com/juandaherrera/finmail/internal/classifier"
)

// Cmd is the rules command.
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the configured classification rules.",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Load the rules from the configured source and print them in order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := root.NewRuleProvider(cmd.Context())
		if err != nil {
			return err
		}
		if provider == nil {
			return fmt.Errorf("no rule source configured (set sheets.spreadsheet_id or rules.file)")
		}

		loaded := provider.GetRules(cmd.Context())
		for i, rule := range loaded {
			fmt.Printf("%3d. %-60s -> %s\n", i+1, rule.Conditions, rule.Category)
		}
		fmt.Printf("%d rules loaded\n", len(loaded))
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <expression>",
	Short: "Validate a rule expression without storing it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conditions, err := classifier.ParseConditions(args[0])
		if err != nil {
			return err
		}
		if _, err := classifier.NewRule(args[0], "placeholder"); err != nil {
			return err
		}
		for _, c := range conditions {
			fmt.Printf("field=%s pattern=%s\n", c.Field, c.Pattern)
		}
		fmt.Println("expression is valid")
		return nil
	},
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(checkCmd)
}
