package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the currency every amount of a simulation is expressed in.
const Currency = money.USD

// USD formats an amount as dollars, rounded half away from zero to cents.
func USD(amount float64) string {
	cents := decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()
	return money.New(cents, Currency).Display()
}

// Percent formats a value that is already a percentage.
func Percent(pct float64) string {
	return decimal.NewFromFloat(pct).StringFixed(2) + "%"
}

// Fraction formats a fraction such as 0.0725 as a percentage.
func Fraction(f float64) string {
	return decimal.NewFromFloat(f).Shift(2).StringFixed(2) + "%"
}

// OptionalFraction formats an undefined metric as "n/a".
func OptionalFraction(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return Fraction(*f)
}
