// Package validation checks API requests before they reach the services.
// Every failure is an *apperrors.ValidationError keyed by the JSON field path.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
)

const (
	// MaxTickerLength is the longest accepted ticker symbol.
	MaxTickerLength = 10
	// MaxScenarioNameLength is the longest accepted scenario name.
	MaxScenarioNameLength = 100
)

// tickerPattern accepts exchange suffixes (VWCE.DE), share classes (BRK-B)
// and index symbols (^GSPC).
var tickerPattern = regexp.MustCompile(`^\^?[A-Za-z0-9][A-Za-z0-9.\-=]*$`)

// ValidateTicker checks that a ticker symbol is present, at most
// MaxTickerLength characters and made of symbol characters only.
func ValidateTicker(ticker string) error {
	if msg := tickerError(ticker); msg != "" {
		return apperrors.NewValidationError("ticker", msg)
	}
	return nil
}

func tickerError(ticker string) string {
	ticker = strings.TrimSpace(ticker)
	switch {
	case ticker == "":
		return apperrors.ErrInvalidTicker.Error()
	case len(ticker) > MaxTickerLength:
		return fmt.Sprintf("ticker must be at most %d characters", MaxTickerLength)
	case !tickerPattern.MatchString(ticker):
		return fmt.Sprintf("invalid ticker %q", ticker)
	}
	return ""
}

// ParseDate parses a YYYY-MM-DD date. An empty string is an error.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperrors.ErrInvalidDate
	}
	d, err := time.Parse(request.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// ValidateDateRange parses start and end and checks that start is strictly
// before end. startField and endField name the fields in the error.
func ValidateDateRange(start, end, startField, endField string) (time.Time, time.Time, error) {
	errs := make(map[string]string)
	validateDateRange(errs, start, end, startField, endField)
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, &apperrors.ValidationError{Fields: errs}
	}
	s, _ := ParseDate(start)
	e, _ := ParseDate(end)
	return s, e, nil
}

func validateDateRange(errs map[string]string, start, end, startField, endField string) {
	s, err := ParseDate(start)
	if err != nil {
		errs[startField] = err.Error()
	}
	e, err2 := ParseDate(end)
	if err2 != nil {
		errs[endField] = err2.Error()
	}
	if err == nil && err2 == nil && !s.Before(e) {
		errs[endField] = apperrors.ErrInvalidDateRange.Error()
	}
}

func amountError(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "amount must be a finite number"
	case v < 0:
		return apperrors.ErrNegativeAmount.Error()
	}
	return ""
}
