package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
)

// CardRepository handles data access for cards.
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts a new card.
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	card.ID = uuid.New().String()
	const q = `
        INSERT INTO cards (id, user_id, slug, title, global_username, callback_url, callback_secret, is_published)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		card.ID, card.UserID, card.Slug, card.Title, card.GlobalUsername,
		card.CallbackURL, card.CallbackSecret, card.IsPublished,
	).Scan(&card.CreatedAt, &card.UpdatedAt)
}

// GetByID returns a card by id.
func (r *CardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	const q = `SELECT * FROM cards WHERE id = $1 LIMIT 1`
	var card models.Card
	if err := r.db.GetContext(ctx, &card, q, id); err != nil {
		return nil, err
	}
	return &card, nil
}

// GetBySlug returns a card by its public slug.
func (r *CardRepository) GetBySlug(ctx context.Context, slug string) (*models.Card, error) {
	const q = `SELECT * FROM cards WHERE slug = $1 LIMIT 1`
	var card models.Card
	if err := r.db.GetContext(ctx, &card, q, slug); err != nil {
		return nil, err
	}
	return &card, nil
}

// ListByUser returns all cards owned by a user, newest first.
func (r *CardRepository) ListByUser(ctx context.Context, userID int) ([]models.Card, error) {
	const q = `SELECT * FROM cards WHERE user_id = $1 ORDER BY created_at DESC`
	var cards []models.Card
	if err := r.db.SelectContext(ctx, &cards, q, userID); err != nil {
		return nil, err
	}
	return cards, nil
}

// Update overwrites a card's mutable fields.
func (r *CardRepository) Update(ctx context.Context, card *models.Card) error {
	const q = `
        UPDATE cards SET
            slug = $2, title = $3, global_username = $4, callback_url = $5,
            callback_secret = $6, is_published = $7, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		card.ID, card.Slug, card.Title, card.GlobalUsername,
		card.CallbackURL, card.CallbackSecret, card.IsPublished,
	).Scan(&card.UpdatedAt)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	return err
}

// UpdateCallbackSecret stores a freshly generated callback secret.
func (r *CardRepository) UpdateCallbackSecret(ctx context.Context, id, secret string) error {
	const q = `UPDATE cards SET callback_secret = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, secret)
	return err
}

// Delete removes a card. Products, social links and callback logs are removed
// by the schema's ON DELETE CASCADE.
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SlugAvailable reports whether a slug can be used for a new card.
// Uniqueness is also enforced by the schema.
func (r *CardRepository) SlugAvailable(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT COUNT(1) FROM cards WHERE slug = $1`
	var n int
	if err := r.db.GetContext(ctx, &n, q, slug); err != nil {
		return false, err
	}
	return n == 0, nil
}
