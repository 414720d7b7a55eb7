// Package amount canonicalizes monetary literals into exact non-negative
// decimal magnitudes. It is the single parsing path for every reader and
// writer of the ledger; sign is always derived from the transaction kind,
// never from the literal.
package amount

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hostelhq/hostel_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// minusFolder maps the Unicode minus and dash glyphs that show up in
// copy-pasted statements onto the ASCII hyphen-minus.
var minusFolder = strings.NewReplacer(
	"−", "-", // minus sign
	"‒", "-", // figure dash
	"–", "-", // en dash
)

// Normalize parses a monetary literal such as "1200", "1,200.50",
// "LKR 1,200.00", "Rs. 950" or "$18.000,00"-style inputs with ASCII commas,
// and returns its exact decimal magnitude. A negative literal (ASCII or
// Unicode minus) is rejected with apperrors.ErrMalformedAmount: the ledger
// stores magnitudes only.
func Normalize(raw string) (decimal.Decimal, error) {
	s := minusFolder.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty literal", apperrors.ErrMalformedAmount)
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}

	s = stripCurrencyPrefix(s)
	s = strings.ReplaceAll(s, ",", "") // thousands separators

	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q has no numeric part", apperrors.ErrMalformedAmount, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrMalformedAmount, raw)
	}
	if negative || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative, sign must come from the transaction kind", apperrors.ErrMalformedAmount, raw)
	}
	return d, nil
}

// stripCurrencyPrefix removes a leading currency tag: an alphabetic code
// ("LKR", "Rs."), a currency symbol ("$", "₹"), or a mix, up to the first
// digit. Anything after the first digit is left for the numeric parser so
// that garbage like "12abc" still fails.
func stripCurrencyPrefix(s string) string {
	prevLetter := false
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' && !prevLetter {
			return strings.TrimSpace(s[i:])
		}
		if unicode.IsLetter(r) || unicode.Is(unicode.Sc, r) {
			prevLetter = unicode.IsLetter(r)
			continue
		}
		if r == '.' || r == ' ' { // abbreviation dot ("Rs.") or spacing
			prevLetter = false
			continue
		}
		// Unexpected rune in the prefix: keep it, the parser will reject it.
		return s
	}
	return s
}
