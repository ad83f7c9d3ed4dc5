package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
)

// CallbackRepository provides access to the catalog webhook delivery log.
type CallbackRepository struct {
	db *sqlx.DB
}

// NewCallbackRepository creates a new CallbackRepository.
func NewCallbackRepository(db *sqlx.DB) *CallbackRepository {
	return &CallbackRepository{db: db}
}

// CreateCallbackLog inserts a new delivery attempt row.
func (r *CallbackRepository) CreateCallbackLog(log *models.CallbackLog) error {
	const q = `
        INSERT INTO catalog_callbacks (
            card_id, event, payload, attempt, http_status, response_body, is_delivered, created_at, next_retry_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, NOW(), $8
        )
        RETURNING id`
	return r.db.QueryRow(q,
		log.CardID,
		log.Event,
		log.Payload,
		log.Attempt,
		log.HTTPStatus,
		log.ResponseBody,
		log.IsDelivered,
		log.NextRetryAt,
	).Scan(&log.ID)
}

// UpdateCallbackLog updates an existing delivery row after a retry attempt.
func (r *CallbackRepository) UpdateCallbackLog(log *models.CallbackLog) error {
	const q = `
        UPDATE catalog_callbacks SET
            attempt = $2,
            http_status = $3,
            response_body = $4,
            is_delivered = $5,
            next_retry_at = $6
        WHERE id = $1`
	_, err := r.db.Exec(q,
		log.ID,
		log.Attempt,
		log.HTTPStatus,
		log.ResponseBody,
		log.IsDelivered,
		log.NextRetryAt,
	)
	return err
}

// GetPendingCallbacks returns undelivered rows that are due for retry.
// Uses SKIP LOCKED to avoid duplicate processing by concurrent workers.
func (r *CallbackRepository) GetPendingCallbacks() ([]models.CallbackLog, error) {
	const q = `
        SELECT * FROM catalog_callbacks
        WHERE is_delivered = false
          AND next_retry_at <= NOW()
          AND attempt < 5
        ORDER BY next_retry_at ASC
        FOR UPDATE SKIP LOCKED`
	var logs []models.CallbackLog
	if err := r.db.Select(&logs, q); err != nil {
		return nil, err
	}
	return logs, nil
}
