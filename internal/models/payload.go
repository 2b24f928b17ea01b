package models

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// EmailPayload is one inbound notification email. It is constructed once
// per request, validated, and then only read.
type EmailPayload struct {
	Subject    string     `json:"subject"`
	Sender     string     `json:"sender"`
	HTML       string     `json:"html,omitempty"`
	ReceivedAt *Timestamp `json:"received_at,omitempty"`
}

// Validate checks the payload's field invariants.
func (p *EmailPayload) Validate() error {
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	if strings.TrimSpace(p.Sender) == "" {
		return fmt.Errorf("sender is required")
	}
	if _, err := mail.ParseAddress(p.Sender); err != nil {
		return fmt.Errorf("sender is not a valid email address: %w", err)
	}
	return nil
}

// ReceivedAtIn returns the reception time converted to loc, or nil when the
// payload carries none.
func (p *EmailPayload) ReceivedAtIn(loc *time.Location) *time.Time {
	if p.ReceivedAt == nil {
		return nil
	}
	t := p.ReceivedAt.Time.In(loc)
	return &t
}

// Timestamp is a time.Time that also accepts naive (offset-less) JSON
// values. A naive timestamp is interpreted as UTC before any downstream
// use.
type Timestamp struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999",
}

// UnmarshalJSON parses RFC 3339 timestamps as-is and naive timestamps as
// UTC.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		ts.Time = t
		return nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", raw)
}

// MarshalJSON renders the timestamp as RFC 3339.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Time.Format(time.RFC3339))
}
