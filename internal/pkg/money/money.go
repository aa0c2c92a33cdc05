// Package money provides fixed-point monetary amounts in minor currency
// units. Balances and amounts are int64 cents end to end; decimal strings
// appear only at the JSON boundary, so repeated additions never drift the
// way float64 accumulation does.
package money

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents is a monetary amount in minor currency units (USD cents).
type Cents int64

// MinDeposit is the smallest accepted funding amount.
const MinDeposit Cents = 1

// Parse converts a decimal string like "25", "25.5", or "25.50" into cents.
// At most two fraction digits are accepted.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	// Right-pad the fraction so "5" and "50" both mean fifty cents.
	frac += strings.Repeat("0", 2-len(frac))

	// ParseUint rejects stray signs inside either part; the single leading
	// sign handled above is the only one allowed.
	dollars, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	if dollars > (math.MaxInt64-cents)/100 {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	total := int64(dollars*100 + cents)
	if neg {
		total = -total
	}
	return Cents(total), nil
}

// String formats the amount as a decimal with two fraction places.
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a bare decimal number.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a decimal string.
// The raw token is parsed as text so values like 0.07 stay exact.
func (c *Cents) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
