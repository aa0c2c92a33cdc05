package validation

import (
	"strconv"
	"strings"

	apierrors "github.com/alepanderf/minibank/internal/pkg/errors"
)

// CardBrand identifies a recognized card network.
type CardBrand string

const (
	CardBrandVisa       CardBrand = "visa"
	CardBrandMastercard CardBrand = "mastercard"
	CardBrandAmex       CardBrand = "amex"
	CardBrandDiscover   CardBrand = "discover"
	CardBrandJCB        CardBrand = "jcb"
	CardBrandUnknown    CardBrand = ""
)

// LuhnValid reports whether a card number passes the Luhn checksum.
// Whitespace is stripped; the number must be 13-19 digits.
func LuhnValid(number string) bool {
	number = stripSpaces(number)
	if len(number) < 13 || len(number) > 19 || !digitsOnly.MatchString(number) {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DetectBrand classifies a card number by prefix and length. An unrecognized
// prefix/length combination yields CardBrandUnknown.
func DetectBrand(number string) CardBrand {
	number = stripSpaces(number)
	if !digitsOnly.MatchString(number) {
		return CardBrandUnknown
	}
	n := len(number)

	switch {
	case number[0] == '4' && (n == 13 || n == 16 || n == 19):
		return CardBrandVisa
	case n == 16 && (inPrefixRange(number, 2, 51, 55) || inPrefixRange(number, 4, 2221, 2720)):
		return CardBrandMastercard
	case n == 15 && (strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37")):
		return CardBrandAmex
	case n == 16 && (strings.HasPrefix(number, "6011") || strings.HasPrefix(number, "65") ||
		inPrefixRange(number, 3, 644, 649)):
		return CardBrandDiscover
	case n == 16 && inPrefixRange(number, 4, 3528, 3589):
		return CardBrandJCB
	default:
		return CardBrandUnknown
	}
}

// Card validates a card funding instrument: the number must pass Luhn and
// resolve to a recognized brand. The two failure modes carry distinct
// messages so callers can tell a mistyped number from an unsupported one.
func Card(number string) (CardBrand, *apierrors.APIError) {
	if !LuhnValid(number) {
		return CardBrandUnknown, apierrors.NewValidationError("accountNumber", "invalid card number")
	}
	brand := DetectBrand(number)
	if brand == CardBrandUnknown {
		return CardBrandUnknown, apierrors.NewValidationError("accountNumber", "unsupported card type")
	}
	return brand, nil
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "\t", "")
}

// inPrefixRange reports whether the number's first width digits parse to a
// value within [lo, hi].
func inPrefixRange(number string, width, lo, hi int) bool {
	if len(number) < width {
		return false
	}
	prefix, err := strconv.Atoi(number[:width])
	if err != nil {
		return false
	}
	return prefix >= lo && prefix <= hi
}
