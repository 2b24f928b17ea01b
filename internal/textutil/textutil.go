// Package textutil provides the text normalization and locale-aware parsing
// helpers shared by all email parsers. Label matching, amount parsing and
// Spanish date handling all live here so each parser only describes layout.
package textutil

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and drops the combining marks, so
// "Café" becomes "Cafe".
var foldAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize strips diacritics, collapses runs of whitespace to a single
// space, trims, and lower-cases. It is idempotent and never fails; all
// label and content matching goes through it so accenting and case never
// affect a match.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}

	// Drop whatever non-ASCII survived decomposition (e.g. ñ keeps its
	// base glyph, but symbols like ® do not fold to ASCII).
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}

// AmountFromString converts a formatted monetary string such as "$33.000"
// or "1,234.56" into a decimal, honouring the separator conventions of the
// source that produced it.
func AmountFromString(s, thousandSep, decimalSep, currencySymbol string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(s, currencySymbol, "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, thousandSep, "")
	if decimalSep != "" && decimalSep != "." {
		cleaned = strings.ReplaceAll(cleaned, decimalSep, ".")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot parse amount %q: %w", s, err)
	}
	return d, nil
}

// monthsES maps Spanish month names to their zero-padded numbers.
var monthsES = map[string]string{
	"enero":      "01",
	"febrero":    "02",
	"marzo":      "03",
	"abril":      "04",
	"mayo":       "05",
	"junio":      "06",
	"julio":      "07",
	"agosto":     "08",
	"septiembre": "09",
	"octubre":    "10",
	"noviembre":  "11",
	"diciembre":  "12",
}

// spanishDateToNumeric rewrites "30 de enero de 2026" as "30/01/2026".
func spanishDateToNumeric(dateStr string) string {
	ds := strings.ToLower(dateStr)
	for name, digits := range monthsES {
		ds = strings.ReplaceAll(ds, name, digits)
	}
	return strings.ReplaceAll(ds, " de ", "/")
}

// ParseSpanishDateTime parses a Spanish date string ("30 de enero de 2026")
// plus a 12-hour time string ("10:10 am") into a timestamp in loc. The
// second return value is false when either input is missing or unparsable;
// callers treat that as "date unknown", not as an error.
func ParseSpanishDateTime(dateStr, timeStr string, loc *time.Location) (time.Time, bool) {
	if dateStr == "" || timeStr == "" {
		return time.Time{}, false
	}

	dt := strings.TrimSpace(spanishDateToNumeric(dateStr) + " " + strings.ToLower(timeStr))
	for _, layout := range []string{"2/1/2006 3:04 pm", "2/1/2006 3:04pm"} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseSpanishDate parses a Spanish date string that may or may not carry a
// trailing 12-hour time, e.g. "30 de enero de 2026" or
// "30 de enero de 2026 10:10 am".
func ParseSpanishDate(dateStr string, loc *time.Location) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}

	ds := strings.TrimSpace(spanishDateToNumeric(strings.Join(strings.Fields(dateStr), " ")))
	layouts := []string{
		"2/1/2006 3:04 pm",
		"2/1/2006 3:04pm",
		"2/1/2006 15:04",
		"2/1/2006",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, strings.ToLower(ds), loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
