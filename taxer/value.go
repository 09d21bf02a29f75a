// Package taxer builds transaction records for the Taxer CSV import and
// encodes them into its headerless line format.
package taxer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	minAmount = 0.01
	maxAmount = 10_000_000.0
)

// Amount is a monetary value accepted by the Taxer import.
type Amount struct {
	value float64
}

// AmountError reports a value outside [0.01, 10000000).
type AmountError struct {
	Value float64
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("taxer: invalid amount %v", e.Value)
}

// NewAmount validates raw and wraps it. NaN and infinities never pass the
// range check.
func NewAmount(raw float64) (Amount, error) {
	if !(raw >= minAmount && raw < maxAmount) {
		return Amount{}, &AmountError{Value: raw}
	}
	return Amount{value: raw}, nil
}

// ParseAmount reads a decimal string such as "220394.05".
func ParseAmount(text string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return Amount{}, fmt.Errorf("taxer: parse amount %q: %w", text, err)
	}
	return NewAmount(d.InexactFloat64())
}

// Raw returns the stored value.
func (a Amount) Raw() float64 {
	return a.value
}

// IsZero reports whether a is the zero value rather than a validated amount.
func (a Amount) IsZero() bool {
	return a.value == 0
}

// Compare returns -1, 0 or +1.
func (a Amount) Compare(other Amount) int {
	switch {
	case a.value < other.value:
		return -1
	case a.value > other.value:
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts before other.
func (a Amount) Less(other Amount) bool {
	return a.value < other.value
}

// String renders the shortest decimal form without exponent or padding.
func (a Amount) String() string {
	return decimal.NewFromFloat(a.value).String()
}

// TaxCode is an 8 digit company code or a 10 digit personal code.
type TaxCode struct {
	code string
}

// TaxCodeError reports an input that is not 8 or 10 ASCII digits.
type TaxCodeError struct {
	Code string
}

func (e *TaxCodeError) Error() string {
	return fmt.Sprintf("taxer: valid tax code must be 8 or 10 digits, got %q", e.Code)
}

// NewTaxCode trims surrounding whitespace and validates the remaining digits.
// The error carries the input as given.
func NewTaxCode(raw string) (TaxCode, error) {
	code := strings.TrimSpace(raw)
	if len(code) != 8 && len(code) != 10 {
		return TaxCode{}, &TaxCodeError{Code: raw}
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return TaxCode{}, &TaxCodeError{Code: raw}
		}
	}
	return TaxCode{code: code}, nil
}

// IsZero reports whether c is the zero value rather than a validated code.
func (c TaxCode) IsZero() bool {
	return c.code == ""
}

// String returns the digits.
func (c TaxCode) String() string {
	return c.code
}
