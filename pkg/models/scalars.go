package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amount is a money value as stored in the collections.
// Decoding never fails: numbers, numeric strings, empty strings and null are all
// accepted, and anything that does not parse becomes 0.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = ParseAmount(string(bytes.TrimSpace(data)))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

// Decimal returns the amount as a decimal for exact accumulation.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(float64(a))
}

// Float returns the amount as float64.
func (a Amount) Float() float64 {
	return float64(a)
}

// IsZero reports whether the amount is 0.
func (a Amount) IsZero() bool {
	return a == 0
}

// ParseAmount parses s leniently. Surrounding quotes are stripped.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if s == "" || s == "null" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Amount(f)
}

// AmountFromDecimal converts a decimal back into an Amount.
func AmountFromDecimal(d decimal.Decimal) Amount {
	f, _ := d.Float64()
	return Amount(f)
}

// FirstNonZero returns the first amount that is not 0.
func FirstNonZero(amounts ...Amount) Amount {
	for _, a := range amounts {
		if a != 0 {
			return a
		}
	}
	return 0
}

// ID identifies a record. Older data uses numeric millisecond ids, newer records
// use UUID strings; both forms survive a decode/encode cycle unchanged.
type ID string

// maxNumericIDLen keeps numeric ids inside the exactly representable float range.
const maxNumericIDLen = 15

// NewID returns a fresh record id.
func NewID() ID {
	return ID(uuid.New().String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(data)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) numeric() bool {
	if len(id) == 0 || len(id) > maxNumericIDLen {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(id) == 1 || id[0] != '0'
}

// String returns the id text.
func (id ID) String() string {
	return string(id)
}

// Date is a record date. Timestamps written by browsers (toISOString), RFC 3339
// and plain YYYY-MM-DD dates are accepted. Text that cannot be parsed is kept
// verbatim and the date sorts as the zero time.
type Date struct {
	time.Time
	raw string
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DateLayout is the presentation format for dates.
const DateLayout = "2006-01-02"

// isoLayout mirrors the millisecond UTC form browsers produce.
const isoLayout = "2006-01-02T15:04:05.000Z"

// NewDate wraps t.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// ParseDate parses s with the accepted layouts.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Date{Time: t}, nil
		}
		lastErr = err
	}
	return Date{raw: s}, lastErr
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" || len(data) == 0 {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Numbers are epoch milliseconds.
		ms, perr := strconv.ParseInt(string(data), 10, 64)
		if perr != nil {
			*d = Date{raw: string(data)}
			return nil
		}
		*d = Date{Time: time.UnixMilli(ms).UTC()}
		return nil
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, _ := ParseDate(s)
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal(d.raw)
	}
	return json.Marshal(d.Time.UTC().Format(isoLayout))
}

// String formats the date for presentation.
func (d Date) String() string {
	if d.Time.IsZero() {
		return d.raw
	}
	return d.Time.Format(DateLayout)
}

// Month returns the YYYY-MM key of the date, or "" when the date is unknown.
func (d Date) Month() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format("2006-01")
}
