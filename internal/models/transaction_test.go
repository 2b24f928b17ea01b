package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransaction() Transaction {
	return Transaction{
		DateLocal:   time.Date(2026, 1, 30, 10, 10, 0, 0, time.UTC),
		Pocket:      "RappiCard",
		Category:    CategoryPending,
		Currency:    "COP",
		Amount:      decimal.NewFromInt(-33000),
		Description: "Purchase at BELLEZA Y ESTILO. Logged by finmail.",
		Merchant:    "BELLEZA Y ESTILO",
	}
}

func TestWithCategoryOnlyChangesCategory(t *testing.T) {
	tx := sampleTransaction()
	classified := tx.WithCategory("Beauty")

	assert.Equal(t, "Beauty", classified.Category)
	assert.Equal(t, CategoryPending, tx.Category)

	classified.Category = tx.Category
	assert.Equal(t, tx, classified)
}

func TestFieldLookup(t *testing.T) {
	tx := sampleTransaction()

	testCases := []struct {
		field    string
		expected string
		present  bool
	}{
		{field: "pocket", expected: "RappiCard", present: true},
		{field: "merchant", expected: "BELLEZA Y ESTILO", present: true},
		{field: "amount", expected: "-33000", present: true},
		{field: "currency", expected: "COP", present: true},
		{field: "notes", expected: "", present: false},
		{field: "auth_code", expected: "", present: false},
		{field: "unknown_field", expected: "", present: false},
	}

	for _, tc := range testCases {
		t.Run(tc.field, func(t *testing.T) {
			got, ok := tx.Field(tc.field)
			assert.Equal(t, tc.present, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRowValues(t *testing.T) {
	tx := sampleTransaction()
	row := tx.RowValues()

	require.Len(t, row, 7)
	assert.Equal(t, "30/01/2026 10:10:00", row[0])
	assert.Equal(t, "RappiCard", row[1])
	assert.Equal(t, CategoryPending, row[2])
	assert.Equal(t, "COP", row[3])
	assert.Equal(t, "-33000", row[4])
	assert.Equal(t, "", row[5])
	assert.Equal(t, "Purchase at BELLEZA Y ESTILO. Logged by finmail.", row[6])
}

func TestPayloadValidate(t *testing.T) {
	payload := EmailPayload{Subject: "hi", Sender: "nreply@bank.com"}
	assert.NoError(t, payload.Validate())

	payload = EmailPayload{Subject: "hi", Sender: "not-an-address"}
	assert.Error(t, payload.Validate())

	payload = EmailPayload{Sender: "nreply@bank.com"}
	assert.Error(t, payload.Validate())
}

func TestTimestampUnmarshal(t *testing.T) {
	var ts Timestamp

	// Naive timestamps are interpreted as UTC.
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-30T15:10:00"`), &ts))
	assert.Equal(t, time.Date(2026, 1, 30, 15, 10, 0, 0, time.UTC), ts.Time)

	// Offset-carrying timestamps keep their instant.
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-30T10:10:00-05:00"`), &ts))
	assert.True(t, ts.Time.Equal(time.Date(2026, 1, 30, 15, 10, 0, 0, time.UTC)))

	assert.Error(t, json.Unmarshal([]byte(`"not a date"`), &ts))
}

func TestReceivedAtIn(t *testing.T) {
	loc := time.FixedZone("-05", -5*3600)

	payload := EmailPayload{Subject: "hi", Sender: "a@b.com"}
	assert.Nil(t, payload.ReceivedAtIn(loc))

	payload.ReceivedAt = &Timestamp{Time: time.Date(2026, 1, 30, 15, 10, 0, 0, time.UTC)}
	got := payload.ReceivedAtIn(loc)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, loc, got.Location())
}
