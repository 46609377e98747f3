// Package normalize maps raw textual fields to validated, typed values.
// Every function is pure: one raw string in, one typed value (or absence)
// out. Absence is "" for text and nil for dates and amounts.
package normalize

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ErrNotNumeric reports a currency field whose value contains no digits at
// all after symbol stripping. The field resolves to absent for the record;
// the caller surfaces the anomaly through the data-quality report.
var ErrNotNumeric = errors.New("normalize: no numeric content")

// ErrNegativeAmount reports a currency field that parsed to a negative
// value. Amounts are non-negative; a negative parse is treated the same as
// an unparsable one.
var ErrNegativeAmount = errors.New("normalize: negative amount")

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// mojibakeSequences are the known encoding-corruption artifacts seen in the
// engine column: a non-breaking space decoded once or twice through the
// wrong codec. Longest first so the double-corrupted form never leaves a
// residue. Allow-listed best-effort repair, not a general decoder.
var mojibakeSequences = []string{
	"Ã‚Â", // NBSP decoded twice
	"Â",             // NBSP decoded once
}

// ID trims an identifier. A blank identifier is absent, which rejects the
// record downstream.
func ID(raw string) string {
	return strings.TrimSpace(raw)
}

// Date parses a raw date string. It tries month/day/year first and only
// falls back to ISO year-month-day when the value matches the ISO shape
// exactly. Anything else is absent, never an error; the record is retained.
func Date(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if t, err := time.Parse("1/2/2006", s); err == nil {
		return &t
	}
	if isoDatePattern.MatchString(s) {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return &t
		}
	}
	return nil
}

// Text trims and title-cases a free-text categorical field.
func Text(raw string) string {
	return titleCase(strings.TrimSpace(raw))
}

// Gender maps the known synonym sets onto "Male" and "Female". Values
// outside the sets pass through title-cased rather than being rejected or
// forced into a third bucket.
func Gender(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	switch strings.ToLower(s) {
	case "m", "male", "man":
		return "Male"
	case "f", "female", "woman":
		return "Female"
	}
	return titleCase(s)
}

// Amount strips currency formatting and parses the remainder as a decimal.
// Blank is absent with no error. A value with no digits left after
// stripping, or one that parses negative, returns an error so the caller
// can count the anomaly instead of silently recording zero.
func Amount(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	stripped := b.String()
	if stripped == "" {
		return nil, ErrNotNumeric
	}
	v, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return nil, ErrNotNumeric
	}
	if v < 0 {
		return nil, ErrNegativeAmount
	}
	return &v, nil
}

// Engine repairs the known mojibake artifacts in an engine description,
// collapses whitespace runs and title-cases the result.
func Engine(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, seq := range mojibakeSequences {
		s = strings.ReplaceAll(s, seq, " ")
	}
	s = strings.Join(strings.Fields(s), " ")
	return titleCase(s)
}

// Opaque trims an opaque identifier (dealer number, phone) without any case
// transformation.
func Opaque(raw string) string {
	return strings.TrimSpace(raw)
}

// titleCase capitalizes the first letter of every word and lowercases the
// rest. A word starts after any non-letter, so "o'brien" becomes "O'Brien".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
