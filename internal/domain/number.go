package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a loosely typed numeric field of an extraction payload. It accepts
// JSON numbers, numeric strings in Brazilian or international notation
// ("R$ 1.234,56", "12.5", "1,80 m") and null. Anything unparseable decodes to 0.
type Number float64

var nonNumericRegex = regexp.MustCompile(`[^0-9.,\-]`)

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" || raw == "true" || raw == "false" {
		*n = 0
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = Number(ParseLooseNumber(s))
		return nil
	}

	// Objects and arrays are not numbers
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		*n = 0
		return nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(d.InexactFloat64())
	return nil
}

// Float returns the value as float64, mapping NaN and ±Inf to 0
func (n Number) Float() float64 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseLooseNumber parses a human formatted number. The right-most of "," and
// "." is taken as the decimal separator when both are present; a separator that
// repeats is treated as a thousands separator. Returns 0 when nothing parses.
func ParseLooseNumber(s string) float64 {
	s = strings.NewReplacer(" ", "", "\u00A0", "", "\u202F", "", "\t", "").Replace(s)
	s = nonNumericRegex.ReplaceAllString(s, "")
	if s == "" || s == "-" {
		return 0
	}

	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")
	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
