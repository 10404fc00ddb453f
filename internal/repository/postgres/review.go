package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/pkg/database"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
)

const (
	setLockTimeoutSQL = `SELECT set_config('lock_timeout', $1, true)`

	lockVendorSQL = `SELECT id FROM vendors WHERE id = $1 FOR UPDATE`

	// clock_timestamp, unlike NOW, is read after the vendor lock is granted,
	// so created_at follows commit order for one vendor.
	insertReviewSQL = `
		INSERT INTO reviews (id, vendor_id, client_name, project, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, clock_timestamp())
		RETURNING created_at`

	reviewAggregateSQL = `SELECT COUNT(*), COALESCE(SUM(rating), 0) FROM reviews WHERE vendor_id = $1`

	setAverageSQL = `UPDATE vendors SET average_rating = $2, updated_at = NOW() WHERE id = $1`
)

// ReviewRepository implements review persistence operations using PostgreSQL.
type ReviewRepository struct {
	pool        database.DBTX
	lockTimeout time.Duration
}

// NewReviewRepository creates a review repository. A positive lockTimeout
// bounds how long Submit waits for a contended vendor row.
func NewReviewRepository(pool database.DBTX, lockTimeout time.Duration) *ReviewRepository {
	return &ReviewRepository{pool: pool, lockTimeout: lockTimeout}
}

// Submit inserts review and rewrites the vendor's average rating under the
// vendor row lock. The average is recomputed from the full review set read
// inside the same transaction, so concurrent submissions for one vendor
// serialize on the lock and each sees every earlier commit.
func (r *ReviewRepository) Submit(ctx context.Context, review *domain.Review) (_ domain.AverageRating, err error) {
	ctx, end := database.TraceQuery(ctx, "SubmitReview", lockVendorSQL)
	defer func() { end(err) }()

	var avg domain.AverageRating
	err = database.WithTx(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if r.lockTimeout > 0 {
			if _, err := tx.Exec(ctx, setLockTimeoutSQL, fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())); err != nil {
				return fmt.Errorf("set lock timeout: %w", err)
			}
		}

		var lockedID string
		if err := tx.QueryRow(ctx, lockVendorSQL, review.VendorID).Scan(&lockedID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("vendor", review.VendorID)
			}
			return fmt.Errorf("lock vendor: %w", err)
		}

		err := tx.QueryRow(ctx, insertReviewSQL,
			review.ID,
			review.VendorID,
			review.ClientName,
			review.Project,
			review.Rating,
			review.Comment,
		).Scan(&review.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert review: %w", err)
		}

		var count, sum int64
		if err := tx.QueryRow(ctx, reviewAggregateSQL, review.VendorID).Scan(&count, &sum); err != nil {
			return fmt.Errorf("aggregate reviews: %w", err)
		}
		avg = domain.ComputeAverage(sum, count)

		if _, err := tx.Exec(ctx, setAverageSQL, review.VendorID, avg.String()); err != nil {
			return fmt.Errorf("update average rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.AverageRating{}, err
	}

	return avg, nil
}

// ListByVendor returns the vendor's reviews, newest first.
func (r *ReviewRepository) ListByVendor(ctx context.Context, vendorID string) ([]domain.Review, error) {
	query := `
		SELECT id, vendor_id, client_name, project, rating, comment, created_at
		FROM reviews
		WHERE vendor_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.VendorID,
			&rv.ClientName,
			&rv.Project,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}
