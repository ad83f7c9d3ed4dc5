package models

import "time"

// SocialLink is one social platform entry on a card.
type SocialLink struct {
	ID           string    `db:"id" json:"id"`
	CardID       string    `db:"card_id" json:"-"`
	Platform     string    `db:"platform" json:"platform"`
	Username     string    `db:"username" json:"username"`
	URL          string    `db:"url" json:"url"`
	DisplayOrder int       `db:"display_order" json:"displayOrder"`
	IsAutoSynced bool      `db:"is_auto_synced" json:"isAutoSynced"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}
