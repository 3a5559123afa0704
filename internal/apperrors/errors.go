package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrETFNotFound indicates that no metadata could be found for a ticker.
	ErrETFNotFound = errors.New("etf not found")

	// ErrPriceHistoryNotFound indicates that no price data exists for a ticker and range.
	ErrPriceHistoryNotFound = errors.New("no price data found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("start date must be before end date")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidWeights indicates that target weights do not sum to one.
	ErrInvalidWeights = errors.New("portfolio weights must sum to 1")

	// ErrInvalidTicker indicates a missing or malformed ticker symbol.
	ErrInvalidTicker = errors.New("ticker is required")

	// ErrInvalidDate indicates a date parameter that could not be parsed.
	ErrInvalidDate = errors.New("date parameter is required")

	// ErrRunAlreadyStarted indicates a simulation run value was reused.
	ErrRunAlreadyStarted = errors.New("simulation run already started")

	// ErrNoScenarios indicates a comparison without any scenario.
	ErrNoScenarios = errors.New("at least one scenario is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrPriceProviderUnavailable = errors.New("price provider unavailable")
	ErrFailedToRetrieveETF      = errors.New("failed to retrieve etf")
	ErrFailedToSearchETFs       = errors.New("failed to search etfs")
	ErrFailedToRetrievePrices   = errors.New("failed to retrieve price history")
	ErrSimulationFailed         = errors.New("simulation failed")
	ErrComparisonFailed         = errors.New("comparison failed")
	ErrFailedToGetVersionInfo   = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataGap indicates a missing or unusable monthly observation. Every
	// DataGapError matches it with errors.Is.
	ErrDataGap = errors.New("price data gap")

	// ErrMisalignedSeries indicates per-ticker series with different period lists.
	ErrMisalignedSeries = errors.New("price series are not aligned")
)
