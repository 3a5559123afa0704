package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// PriceRepository provides data access methods for the price_history table.
type PriceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

func (r *PriceRepository) WithTx(tx *sql.Tx) *PriceRepository {
	return &PriceRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PriceRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetPriceHistory returns the stored daily points of ticker between start
// and end inclusive, ordered by date. An empty slice means nothing is cached.
func (r *PriceRepository) GetPriceHistory(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT date, close, adj_close, dividend
		FROM price_history
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, strings.ToUpper(ticker), formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query price_history table: %w", err)
	}
	defer rows.Close()

	points := []model.PricePoint{}
	for rows.Next() {
		var (
			p       model.PricePoint
			dateStr string
		)
		if err := rows.Scan(&dateStr, &p.Close, &p.AdjustedClose, &p.Dividend); err != nil {
			return nil, fmt.Errorf("failed to scan price_history table results: %w", err)
		}
		p.Date, err = parseDay(dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid price date for %s: %w", ticker, err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_history table: %w", err)
	}

	return points, nil
}

// UpsertPrices stores records in one transaction. An existing row for the
// same ticker and day is replaced.
func (r *PriceRepository) UpsertPrices(ctx context.Context, records []model.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	if r.tx != nil {
		return upsertPrices(ctx, r.tx, records)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertPrices(ctx, tx, records); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price_history: %w", err)
	}
	return nil
}

func upsertPrices(ctx context.Context, tx *sql.Tx, records []model.PriceRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_history (ticker, date, open, high, low, close, adj_close, volume, dividend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			adj_close = excluded.adj_close,
			volume = excluded.volume,
			dividend = excluded.dividend
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare price_history upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			strings.ToUpper(rec.Ticker),
			formatDate(rec.Date),
			rec.Open,
			rec.High,
			rec.Low,
			rec.Close,
			rec.AdjustedClose,
			rec.Volume,
			rec.Dividend,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert price %s %s: %w", rec.Ticker, formatDate(rec.Date), err)
		}
	}
	return nil
}

// Tickers returns every ticker with stored prices.
func (r *PriceRepository) Tickers(ctx context.Context) ([]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT DISTINCT ticker FROM price_history ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price_history tickers: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan price_history ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}

// LatestDate returns the most recent stored day for ticker. ok is false when
// nothing is stored.
func (r *PriceRepository) LatestDate(ctx context.Context, ticker string) (latest time.Time, ok bool, err error) {
	var dateStr sql.NullString
	err = r.getQuerier().QueryRowContext(ctx,
		`SELECT MAX(date) FROM price_history WHERE ticker = ?`, strings.ToUpper(ticker),
	).Scan(&dateStr)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query latest price date for %s: %w", ticker, err)
	}
	if !dateStr.Valid {
		return time.Time{}, false, nil
	}
	latest, err = parseDay(dateStr.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return latest, true, nil
}
