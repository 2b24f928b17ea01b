// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryPending is the sentinel category a transaction carries until the
// classifier assigns a real one.
const CategoryPending = "Pending Classification"

// SheetDateFormat is the timestamp layout the external sink expects.
const SheetDateFormat = "02/01/2006 15:04:05"

// Transaction is the canonical record extracted from one notification
// email. The amount sign is fixed at parse time (negative = outflow,
// positive = inflow) and never flipped afterwards; classification only
// rewrites Category.
type Transaction struct {
	DateLocal    time.Time       `json:"date_local"`
	Pocket       string          `json:"pocket"`
	Category     string          `json:"category"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Merchant     string          `json:"merchant,omitempty"`
	AccountLast4 string          `json:"account_last4,omitempty"`
	AuthCode     string          `json:"auth_code,omitempty"`
}

// WithCategory returns a copy of the transaction with only Category
// replaced.
func (t Transaction) WithCategory(category string) Transaction {
	t.Category = category
	return t
}

// Field resolves a classification field name to the string form of the
// transaction's value. The second return is false when the field is unknown
// or the value is absent, which makes the containing rule condition fail.
func (t Transaction) Field(name string) (string, bool) {
	switch name {
	case "date_local":
		return t.DateLocal.Format("2006-01-02 15:04:05"), true
	case "pocket":
		return t.Pocket, true
	case "category":
		return t.Category, true
	case "currency":
		return t.Currency, true
	case "amount":
		return t.Amount.String(), true
	case "description":
		return t.Description, t.Description != ""
	case "notes":
		return t.Notes, t.Notes != ""
	case "merchant":
		return t.Merchant, t.Merchant != ""
	case "account_last4":
		return t.AccountLast4, t.AccountLast4 != ""
	case "auth_code":
		return t.AuthCode, t.AuthCode != ""
	default:
		return "", false
	}
}

// RowValues renders the transaction in the column order the external sink
// expects. The sixth column is reserved (the sheet keeps a formula there).
func (t Transaction) RowValues() []string {
	return []string{
		t.DateLocal.Format(SheetDateFormat),
		t.Pocket,
		t.Category,
		t.Currency,
		t.Amount.String(),
		"",
		t.Description,
	}
}
