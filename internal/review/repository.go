package review

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, reviewerID, providerID, rating int, comment string) (*Review, error)
	ListByProvider(ctx context.Context, providerID, limit, offset int) ([]Review, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, reviewerID, providerID, rating int, comment string) (*Review, error) {
	query := `
		INSERT INTO reviews (reviewer_id, provider_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, reviewer_id, provider_id, rating, comment, created_at
	`

	var rev Review
	err := r.db.GetContext(ctx, &rev, query, reviewerID, providerID, rating, comment)
	if err != nil {
		return nil, err
	}

	return &rev, nil
}

func (r *repository) ListByProvider(ctx context.Context, providerID, limit, offset int) ([]Review, error) {
	if limit <= 0 {
		limit = 50
	}

	var reviews []Review
	err := r.db.SelectContext(ctx, &reviews,
		`SELECT id, reviewer_id, provider_id, rating, comment, created_at
		 FROM reviews
		 WHERE provider_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		providerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}
