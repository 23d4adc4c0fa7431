package repository

import (
	"context"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PriceRepository handles database reads over the bitcoin_prices table.
// The table is populated by an external ingestion process; this service
// only ever reads it.
type PriceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(db *sqlx.DB, logger *zap.Logger) *PriceRepository {
	return &PriceRepository{
		db:     db,
		logger: logger,
	}
}

const priceColumns = "date, open, high, low, close, adj_close, volume"

// FetchRange retrieves records with date in the inclusive [start, end]
// range, ordered by date ascending.
func (r *PriceRepository) FetchRange(ctx context.Context, start, end time.Time) ([]model.PriceRecord, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM bitcoin_prices
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	records := []model.PriceRecord{}
	if err := r.db.SelectContext(ctx, &records, query, start, end); err != nil {
		r.logger.Error("Failed to fetch price range",
			zap.Error(err),
			zap.Time("start", start),
			zap.Time("end", end))
		return nil, &apperr.StorageError{Op: "fetch price range", Err: err}
	}
	return records, nil
}

// FetchAll retrieves a page of records ordered by date ascending.
func (r *PriceRepository) FetchAll(ctx context.Context, limit, offset int) ([]model.PriceRecord, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM bitcoin_prices
		ORDER BY date
		LIMIT $1 OFFSET $2
	`

	records := []model.PriceRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit, offset); err != nil {
		r.logger.Error("Failed to fetch prices",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset))
		return nil, &apperr.StorageError{Op: "fetch prices", Err: err}
	}
	return records, nil
}

// Count returns the total number of records in the table.
func (r *PriceRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bitcoin_prices"); err != nil {
		r.logger.Error("Failed to count prices", zap.Error(err))
		return 0, &apperr.StorageError{Op: "count prices", Err: err}
	}
	return total, nil
}

// Stats returns min/max/average close price and the total record count.
func (r *PriceRepository) Stats(ctx context.Context) (*model.PriceStatistics, error) {
	query := `
		SELECT
			COALESCE(MIN(close), 0) AS min_price,
			COALESCE(MAX(close), 0) AS max_price,
			COALESCE(AVG(close), 0) AS avg_price,
			COUNT(*) AS total_entries
		FROM bitcoin_prices
	`

	var stats model.PriceStatistics
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		r.logger.Error("Failed to compute price statistics", zap.Error(err))
		return nil, &apperr.StorageError{Op: "price statistics", Err: err}
	}
	return &stats, nil
}
