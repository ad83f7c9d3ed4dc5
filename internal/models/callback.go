package models

import (
	"encoding/json"
	"time"
)

// CallbackLog stores one outgoing catalog webhook attempt to a card's callback URL.
type CallbackLog struct {
	ID           int             `db:"id"`
	CardID       string          `db:"card_id"`
	Event        string          `db:"event"`
	Payload      json.RawMessage `db:"payload"`
	Attempt      int             `db:"attempt"`
	HTTPStatus   *int            `db:"http_status"`
	ResponseBody *string         `db:"response_body"`
	IsDelivered  bool            `db:"is_delivered"`
	CreatedAt    time.Time       `db:"created_at"`
	NextRetryAt  *time.Time      `db:"next_retry_at"`
}
