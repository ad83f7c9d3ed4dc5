package models

import "time"

// Card represents a single digital business card owned by an admin user.
// The callback secret is omitted from JSON responses for security.
type Card struct {
	ID             string    `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"userId"`
	Slug           string    `db:"slug" json:"slug"`
	Title          string    `db:"title" json:"title"`
	GlobalUsername string    `db:"global_username" json:"globalUsername"`
	CallbackURL    string    `db:"callback_url" json:"callbackUrl"`
	CallbackSecret string    `db:"callback_secret" json:"callbackSecret,omitempty"`
	IsPublished    bool      `db:"is_published" json:"isPublished"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
