package review

import "time"

type Review struct {
	ID         int       `db:"id" json:"id"`
	ReviewerID int       `db:"reviewer_id" json:"reviewer_id"`
	ProviderID int       `db:"provider_id" json:"provider_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CreateReviewRequest struct {
	ProviderID int `json:"provider_id" binding:"required"`
	// Pointer so a submitted 0 fails the range check, not the presence check.
	Rating  *int   `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}
