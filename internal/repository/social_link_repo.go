package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
)

// SocialLinkRepository handles data access for a card's social links.
type SocialLinkRepository struct {
	db *sqlx.DB
}

// NewSocialLinkRepository creates a new SocialLinkRepository.
func NewSocialLinkRepository(db *sqlx.DB) *SocialLinkRepository {
	return &SocialLinkRepository{db: db}
}

// ListByCard returns a card's social links ordered by display_order ascending.
func (r *SocialLinkRepository) ListByCard(ctx context.Context, cardID string) ([]models.SocialLink, error) {
	const q = `SELECT * FROM social_links WHERE card_id = $1 ORDER BY display_order ASC`
	var links []models.SocialLink
	if err := r.db.SelectContext(ctx, &links, q, cardID); err != nil {
		return nil, err
	}
	return links, nil
}

// Replace deletes all social link rows for a card and re-inserts the given
// sequence in order, assigning display_order by slice position. Same wholesale
// replace contract as product children.
func (r *SocialLinkRepository) Replace(ctx context.Context, cardID string, links []models.SocialLink) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM social_links WHERE card_id = $1`, cardID); err != nil {
		return err
	}

	const ins = `
        INSERT INTO social_links (id, card_id, platform, username, url, display_order, is_auto_synced)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range links {
		l := &links[i]
		l.ID = uuid.New().String()
		l.CardID = cardID
		l.DisplayOrder = i
		if _, err := tx.ExecContext(ctx, ins, l.ID, l.CardID, l.Platform, l.Username, l.URL, l.DisplayOrder, l.IsAutoSynced); err != nil {
			return err
		}
	}

	return tx.Commit()
}
