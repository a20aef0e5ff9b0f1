// Package money formats integer minor-unit amounts for display.
package money

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts as "<symbol> <units><sep><cents>", e.g. "R$ 49,99".
// Thousands are never grouped.
type Formatter struct {
	symbol  string
	decimal string
}

// NewFormatter builds a formatter for a BCP-47 locale tag and currency symbol.
func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{symbol: symbol, decimal: decimalSeparator(tag)}, nil
}

// Default is the storefront's pt-BR / R$ formatter.
func Default() *Formatter {
	return &Formatter{symbol: "R$", decimal: decimalSeparator(language.BrazilianPortuguese)}
}

// decimalSeparator asks the locale how it writes one and a half.
func decimalSeparator(tag language.Tag) string {
	s := message.NewPrinter(tag).Sprint(number.Decimal(1.5, number.Scale(1)))
	sep := strings.Trim(s, "0123456789")
	if sep == "" {
		return "."
	}
	return sep
}

// Format renders minor units. 4999 becomes "R$ 49,99".
func (f *Formatter) Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%s %d%s%02d", sign, f.symbol, minor/100, f.decimal, minor%100)
}

// Symbol returns the currency symbol.
func (f *Formatter) Symbol() string { return f.symbol }
