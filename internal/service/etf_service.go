package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/repository"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/yahoo"
)

// coverageSlack is how far the first and last stored day may sit inside the
// requested window before the store counts as incomplete. It absorbs
// weekends and market holidays at the window edges.
const coverageSlack = 7 * 24 * time.Hour

func ptr[T any](v T) *T { return &v }

// PopularETFs is the built-in search fallback used when the local store has
// no match.
var PopularETFs = []model.ETFSearchResult{
	{Ticker: "VOO", Name: "Vanguard S&P 500 ETF", Category: ptr("Large Cap Blend")},
	{Ticker: "VTI", Name: "Vanguard Total Stock Market ETF", Category: ptr("Total Market")},
	{Ticker: "QQQ", Name: "Invesco QQQ Trust", Category: ptr("Technology")},
	{Ticker: "VEA", Name: "Vanguard FTSE Developed Markets ETF", Category: ptr("Foreign Large Blend")},
	{Ticker: "VWO", Name: "Vanguard FTSE Emerging Markets ETF", Category: ptr("Emerging Markets")},
	{Ticker: "BND", Name: "Vanguard Total Bond Market ETF", Category: ptr("Intermediate Core Bond")},
	{Ticker: "VNQ", Name: "Vanguard Real Estate ETF", Category: ptr("Real Estate")},
	{Ticker: "GLD", Name: "SPDR Gold Shares", Category: ptr("Commodities")},
	{Ticker: "SCHD", Name: "Schwab US Dividend Equity ETF", Category: ptr("Large Value")},
	{Ticker: "ARKK", Name: "ARK Innovation ETF", Category: ptr("Innovation")},
	{Ticker: "SPY", Name: "SPDR S&P 500 ETF Trust", Category: ptr("Large Cap Blend")},
	{Ticker: "IVV", Name: "iShares Core S&P 500 ETF", Category: ptr("Large Cap Blend")},
}

// ETFService handles ETF metadata and daily price history. The local sqlite
// store is consulted first and Yahoo Finance fills the gaps; whatever is
// fetched is written back to the store.
type ETFService struct {
	etfRepo     *repository.ETFRepository
	priceRepo   *repository.PriceRepository
	yahooClient yahoo.Client
	log         zerolog.Logger
	now         func() time.Time
}

// NewETFService creates a new ETFService with the provided repositories.
func NewETFService(
	etfRepo *repository.ETFRepository,
	priceRepo *repository.PriceRepository,
	yahooClient yahoo.Client,
	log zerolog.Logger,
) *ETFService {
	return &ETFService{
		etfRepo:     etfRepo,
		priceRepo:   priceRepo,
		yahooClient: yahooClient,
		log:         log.With().Str("component", "etf_service").Logger(),
		now:         time.Now,
	}
}

// SearchETFs returns ETFs whose ticker or name contains query. Stored ETFs
// win; the popular list is only searched when the store has no match.
func (s *ETFService) SearchETFs(ctx context.Context, query string) ([]model.ETFSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("q", "search query is required")
	}

	results, err := s.etfRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToSearchETFs, err)
	}
	if len(results) > 0 {
		return results, nil
	}

	upper := strings.ToUpper(query)
	lower := strings.ToLower(query)
	results = []model.ETFSearchResult{}
	for _, etf := range PopularETFs {
		if strings.Contains(etf.Ticker, upper) || strings.Contains(strings.ToLower(etf.Name), lower) {
			results = append(results, etf)
		}
	}
	return results, nil
}

// GetETF returns the metadata of ticker from the store, or fetches it from
// Yahoo and caches it. Unknown symbols yield apperrors.ErrETFNotFound.
func (s *ETFService) GetETF(ctx context.Context, ticker string) (model.ETF, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	etf, err := s.etfRepo.Get(ctx, ticker)
	if err == nil {
		return etf, nil
	}
	if !errors.Is(err, apperrors.ErrETFNotFound) {
		return model.ETF{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveETF, err)
	}

	// A short window is enough to read the chart metadata.
	end := s.today()
	chart, err := s.fetchChart(ctx, ticker, end.AddDate(0, 0, -7), end)
	if err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) || errors.Is(err, apperrors.ErrPriceHistoryNotFound) {
			return model.ETF{}, fmt.Errorf("%w: %s", apperrors.ErrETFNotFound, ticker)
		}
		return model.ETF{}, err
	}

	etf = model.ETF{
		Ticker:        ticker,
		Name:          chart.Name(),
		InceptionDate: chart.FirstTradeDate,
		UpdatedAt:     s.now().UTC(),
	}
	if chart.InstrumentType != "" {
		etf.Category = ptr(chart.InstrumentType)
	}
	for _, p := range PopularETFs {
		if p.Ticker == ticker {
			etf.Category = p.Category
		}
	}

	if err := s.etfRepo.Upsert(ctx, etf); err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("failed to cache etf metadata")
	}
	return etf, nil
}

// GetPriceHistory returns the daily points of ticker between start and end
// inclusive, ordered by date. Stored data is used when it covers the window;
// otherwise the window is fetched from Yahoo and written through.
func (s *ETFService) GetPriceHistory(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, apperrors.NewValidationError("ticker", apperrors.ErrInvalidTicker.Error())
	}
	if !start.Before(end) {
		return nil, apperrors.NewValidationError("end_date", apperrors.ErrInvalidDateRange.Error())
	}
	if today := s.today(); end.After(today) {
		end = today
	}

	stored, err := s.priceRepo.GetPriceHistory(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrievePrices, err)
	}
	if covers(stored, start, end) {
		return stored, nil
	}

	s.log.Debug().
		Str("ticker", ticker).
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Int("stored", len(stored)).
		Msg("price history not cached, fetching")

	chart, err := s.fetchChart(ctx, ticker, start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrPriceHistoryNotFound) {
			return []model.PricePoint{}, nil
		}
		if len(stored) > 0 && errors.Is(err, apperrors.ErrPriceProviderUnavailable) {
			// Partial local data is better than none; the normalizer reports
			// any month it cannot fill.
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("price provider unavailable, using stored prices")
			return stored, nil
		}
		return nil, err
	}

	records := make([]model.PriceRecord, 0, len(chart.Indicators))
	points := make([]model.PricePoint, 0, len(chart.Indicators))
	for _, ind := range chart.Indicators {
		point := model.PricePoint{
			Date:          ind.Date,
			Close:         ind.PriceClose,
			AdjustedClose: ind.PriceAdjClose,
			Dividend:      ind.Dividend,
		}
		records = append(records, model.PriceRecord{
			Ticker:     ticker,
			PricePoint: point,
			Open:       ind.PriceOpen,
			High:       ind.PriceHigh,
			Low:        ind.PriceLow,
			Volume:     ind.Volume,
		})
		if !point.Date.Before(start) && !point.Date.After(end) {
			points = append(points, point)
		}
	}

	if err := s.priceRepo.UpsertPrices(ctx, records); err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("failed to cache price history")
	}
	return points, nil
}

// RefreshPrices fetches the last lookback of ticker from Yahoo into the
// store and returns the number of sessions written.
func (s *ETFService) RefreshPrices(ctx context.Context, ticker string, lookback time.Duration) (int, error) {
	end := s.today()
	start := end.Add(-lookback)
	if latest, ok, err := s.priceRepo.LatestDate(ctx, ticker); err == nil && ok && latest.After(start) {
		start = latest
	}

	chart, err := s.fetchChart(ctx, ticker, start, end)
	if err != nil {
		return 0, err
	}

	records := make([]model.PriceRecord, len(chart.Indicators))
	for i, ind := range chart.Indicators {
		records[i] = model.PriceRecord{
			Ticker: ticker,
			PricePoint: model.PricePoint{
				Date:          ind.Date,
				Close:         ind.PriceClose,
				AdjustedClose: ind.PriceAdjClose,
				Dividend:      ind.Dividend,
			},
			Open:   ind.PriceOpen,
			High:   ind.PriceHigh,
			Low:    ind.PriceLow,
			Volume: ind.Volume,
		}
	}
	if err := s.priceRepo.UpsertPrices(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// StoredTickers returns every ticker with stored prices.
func (s *ETFService) StoredTickers(ctx context.Context) ([]string, error) {
	return s.priceRepo.Tickers(ctx)
}

func (s *ETFService) fetchChart(ctx context.Context, ticker string, start, end time.Time) (yahoo.PriceChart, error) {
	resp, err := s.yahooClient.QuerySymbolByDateRange(ctx, ticker, start, end)
	if err != nil {
		return yahoo.PriceChart{}, err
	}
	return s.yahooClient.ParseChart(resp)
}

func (s *ETFService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// covers reports whether points, sorted by date, span [start, end] up to
// coverageSlack at either edge.
func covers(points []model.PricePoint, start, end time.Time) bool {
	if len(points) == 0 {
		return false
	}
	first := points[0].Date
	last := points[len(points)-1].Date
	return first.Sub(start) <= coverageSlack && end.Sub(last) <= coverageSlack
}
