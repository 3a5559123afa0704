package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// SearchLimit caps the number of rows returned by a search.
const SearchLimit = 10

// ETFRepository provides data access methods for the etfs table.
// It caches ETF metadata fetched from the price provider.
type ETFRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewETFRepository creates a new ETFRepository with the provided database connection.
func NewETFRepository(db *sql.DB) *ETFRepository {
	return &ETFRepository{db: db}
}

func (r *ETFRepository) WithTx(tx *sql.Tx) *ETFRepository {
	return &ETFRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ETFRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Search returns up to SearchLimit ETFs whose ticker or name contains query,
// case-insensitively, ordered by ticker.
func (r *ETFRepository) Search(ctx context.Context, query string) ([]model.ETFSearchResult, error) {
	pattern := "%" + strings.ToUpper(strings.TrimSpace(query)) + "%"

	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT ticker, name, category
		FROM etfs
		WHERE UPPER(ticker) LIKE ? OR UPPER(name) LIKE ?
		ORDER BY ticker
		LIMIT ?
	`, pattern, pattern, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query etfs table: %w", err)
	}
	defer rows.Close()

	results := []model.ETFSearchResult{}
	for rows.Next() {
		var (
			res      model.ETFSearchResult
			category sql.NullString
		)
		if err := rows.Scan(&res.Ticker, &res.Name, &category); err != nil {
			return nil, fmt.Errorf("failed to scan etfs table results: %w", err)
		}
		if category.Valid {
			res.Category = &category.String
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating etfs table: %w", err)
	}

	return results, nil
}

// Get returns the cached ETF for ticker or apperrors.ErrETFNotFound.
func (r *ETFRepository) Get(ctx context.Context, ticker string) (model.ETF, error) {
	var (
		etf           model.ETF
		category      sql.NullString
		expenseRatio  sql.NullFloat64
		dividendYield sql.NullFloat64
		inception     sql.NullString
		aum           sql.NullInt64
		description   sql.NullString
		updatedAt     sql.NullString
	)

	err := r.getQuerier().QueryRowContext(ctx, `
		SELECT ticker, name, category, expense_ratio, dividend_yield, inception_date, aum, description, updated_at
		FROM etfs
		WHERE ticker = ?
	`, strings.ToUpper(ticker)).Scan(
		&etf.Ticker,
		&etf.Name,
		&category,
		&expenseRatio,
		&dividendYield,
		&inception,
		&aum,
		&description,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ETF{}, apperrors.ErrETFNotFound
	}
	if err != nil {
		return model.ETF{}, fmt.Errorf("failed to query etf %s: %w", ticker, err)
	}

	if category.Valid {
		etf.Category = &category.String
	}
	if expenseRatio.Valid {
		etf.ExpenseRatio = &expenseRatio.Float64
	}
	if dividendYield.Valid {
		etf.DividendYield = &dividendYield.Float64
	}
	if inception.Valid && inception.String != "" {
		d, err := parseDay(inception.String)
		if err != nil {
			return model.ETF{}, fmt.Errorf("invalid inception date for %s: %w", ticker, err)
		}
		etf.InceptionDate = &d
	}
	if aum.Valid {
		etf.AUM = &aum.Int64
	}
	if description.Valid {
		etf.Description = &description.String
	}
	if updatedAt.Valid {
		if t, err := parseTimestamp(updatedAt.String); err == nil {
			etf.UpdatedAt = t
		}
	}

	return etf, nil
}

// Upsert inserts or replaces the cached metadata of an ETF.
func (r *ETFRepository) Upsert(ctx context.Context, etf model.ETF) error {
	var inception any
	if etf.InceptionDate != nil {
		inception = formatDate(*etf.InceptionDate)
	}
	updatedAt := etf.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO etfs (ticker, name, category, expense_ratio, dividend_yield, inception_date, aum, description, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			expense_ratio = excluded.expense_ratio,
			dividend_yield = excluded.dividend_yield,
			inception_date = excluded.inception_date,
			aum = excluded.aum,
			description = excluded.description,
			updated_at = excluded.updated_at
	`,
		strings.ToUpper(etf.Ticker),
		etf.Name,
		etf.Category,
		etf.ExpenseRatio,
		etf.DividendYield,
		inception,
		etf.AUM,
		etf.Description,
		updatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert etf %s: %w", etf.Ticker, err)
	}
	return nil
}

func parseTimestamp(str string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", str)
}
