package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/shared"
	"github.com/ferndazed/chorus/internal/shares"
)

// ShareRepository implements shares.ShareStore on SQLite.
type ShareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a ShareRepository with the given database connection.
func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// bucketPredicate returns the WHERE fragment deriving a bucket from the
// reaction and queue columns.
func bucketPredicate(bucket models.Bucket) (string, error) {
	switch bucket {
	case models.BucketUnreacted:
		return "reaction IS NULL AND is_queued = 0", nil
	case models.BucketQueued:
		return "reaction IS NULL AND is_queued = 1", nil
	case models.BucketArchived:
		return "reaction IS NOT NULL", nil
	}
	return "", fmt.Errorf("%w: bucket %q", shared.ErrInvalidInput, bucket)
}

// ListShares returns share rows for the query, newest first. Ties on
// created_at are broken by id so page boundaries never skip or repeat rows.
func (r *ShareRepository) ListShares(ctx context.Context, q shares.ListQuery) ([]models.ShareRecord, error) {
	predicate, err := bucketPredicate(q.Bucket)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT s.id, s.provider, s.track_external_id, s.title, s.artist,
		       COALESCE(s.album, ''), COALESCE(s.artwork_url, ''), COALESCE(s.external_url, ''),
		       s.reaction, s.is_queued, s.created_at,
		       p.id, p.display_name, COALESCE(p.avatar_url, '')
		FROM shared_songs s
		JOIN people p ON p.id = s.sender_id
		WHERE s.recipient_id = ? AND ` + predicate

	args := []any{q.RecipientID}

	if q.Before != nil {
		query += " AND s.created_at < ?"
		args = append(args, q.Before.UTC())
	}

	query += " ORDER BY s.created_at DESC, s.id DESC"

	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var records []models.ShareRecord
	for rows.Next() {
		var (
			rec      models.ShareRecord
			reaction sql.NullBool
			queued   int
			created  time.Time
		)
		err := rows.Scan(
			&rec.ID, &rec.Provider, &rec.TrackExternalID, &rec.Title, &rec.Artist,
			&rec.Album, &rec.ArtworkURL, &rec.ExternalURL,
			&reaction, &queued, &created,
			&rec.Sender.ID, &rec.Sender.DisplayName, &rec.Sender.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share row: %w", err)
		}

		if reaction.Valid {
			v := reaction.Bool
			rec.Reaction = &v
		}
		rec.IsQueued = queued != 0
		rec.CreatedAt = created.UTC()
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read share rows: %w", err)
	}

	return records, nil
}

// UpdateShares applies the update to every row in ids inside one transaction.
func (r *ShareRepository) UpdateShares(ctx context.Context, ids []string, update models.ShareUpdate) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no ids", shared.ErrInvalidInput)
	}

	var sets []string
	var args []any
	if update.Reaction != nil {
		sets = append(sets, "reaction = ?")
		args = append(args, *update.Reaction)
	}
	if update.Queued != nil {
		sets = append(sets, "is_queued = ?")
		args = append(args, *update.Queued)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: empty update", shared.ErrInvalidInput)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	for _, id := range ids {
		args = append(args, id)
	}

	query := fmt.Sprintf("UPDATE shared_songs SET %s WHERE id IN (%s)",
		strings.Join(sets, ", "), placeholders)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update shares: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated rows: %w", err)
	}
	if affected != int64(len(ids)) {
		return fmt.Errorf("%w: updated %d of %d rows", shared.ErrShareNotFound, affected, len(ids))
	}

	return tx.Commit()
}

// CreatePerson inserts a sender row, ignoring duplicates.
func (r *ShareRepository) CreatePerson(ctx context.Context, p models.Person) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO people (id, display_name, avatar_url) VALUES (?, ?, ?)",
		p.ID, p.DisplayName, p.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

// CreateShare inserts a share row for a recipient. An empty record id is
// filled with a generated UUID. The sender must already exist.
func (r *ShareRepository) CreateShare(ctx context.Context, recipientID string, rec models.ShareRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = shared.GenerateID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var reaction any
	if rec.Reaction != nil {
		reaction = *rec.Reaction
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shared_songs (
			id, recipient_id, sender_id, provider, track_external_id,
			title, artist, album, artwork_url, external_url,
			reaction, is_queued, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, recipientID, rec.Sender.ID, rec.Provider, rec.TrackExternalID,
		rec.Title, rec.Artist, rec.Album, rec.ArtworkURL, rec.ExternalURL,
		reaction, rec.IsQueued, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create share: %w", err)
	}

	return rec.ID, nil
}
