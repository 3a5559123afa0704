package validation

import (
	"strings"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
)

// MaxSearchQueryLength caps the search term length.
const MaxSearchQueryLength = 100

// ValidateSearchQuery checks the q parameter of the ETF search.
func ValidateSearchQuery(q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return apperrors.NewValidationError("q", "search query is required")
	}
	if len(q) > MaxSearchQueryLength {
		return apperrors.NewValidationError("q", "search query is too long")
	}
	return nil
}

// ValidateHistoryQuery parses the start and end parameters of the price
// history endpoint.
func ValidateHistoryQuery(start, end string) (time.Time, time.Time, error) {
	return ValidateDateRange(start, end, "start", "end")
}
