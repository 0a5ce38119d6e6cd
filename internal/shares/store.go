package shares

import (
	"context"
	"time"

	"github.com/ferndazed/chorus/internal/models"
)

// ListQuery describes a bucket-filtered, cursor-bounded read of a user's
// share rows, ordered by createdAt descending.
type ListQuery struct {
	RecipientID string
	Bucket      models.Bucket
	Before      *time.Time // exclusive upper bound on createdAt; nil = newest
	Limit       int
}

// ShareStore is the backend data service consumed by the engine. The real
// implementation lives server-side; internal/repositories carries a SQLite
// implementation for development and tests.
type ShareStore interface {
	// ListShares returns share rows matching the query, newest first.
	ListShares(ctx context.Context, q ListQuery) ([]models.ShareRecord, error)

	// UpdateShares applies the update to every row in ids as one bulk
	// mutation. Partial application is not acceptable.
	UpdateShares(ctx context.Context, ids []string, update models.ShareUpdate) error
}
