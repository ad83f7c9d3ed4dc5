package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
	"github.com/yashvavaliya/DBC-new-section/internal/utils"
)

// CardSource resolves delivery targets for callbacks.
type CardSource interface {
	GetByID(ctx context.Context, id string) (*models.Card, error)
}

// CallbackLogStore persists delivery attempts for the retry worker.
type CallbackLogStore interface {
	CreateCallbackLog(log *models.CallbackLog) error
	UpdateCallbackLog(log *models.CallbackLog) error
	GetPendingCallbacks() ([]models.CallbackLog, error)
}

// catalogWebhookEvent is the event name sent with every catalog delivery.
const catalogWebhookEvent = "catalog.updated"

// catalogPayload is the webhook body: always the full refreshed catalog.
type catalogPayload struct {
	Event     string           `json:"event"`
	CardID    string           `json:"cardId"`
	Catalog   []models.Product `json:"catalog"`
	Timestamp string           `json:"timestamp"`
}

// CallbackService delivers catalog snapshots to a card's callback URL and
// retries undelivered attempts via the callback worker.
type CallbackService struct {
	cards      CardSource
	logs       CallbackLogStore
	httpClient *http.Client
}

// NewCallbackService constructs a CallbackService with a default HTTP client.
func NewCallbackService(cards CardSource, logs CallbackLogStore) *CallbackService {
	return &CallbackService{
		cards: cards,
		logs:  logs,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// CatalogChanged implements CatalogListener: it records and attempts delivery
// of the refreshed catalog to the card's callback URL, when one is set.
func (s *CallbackService) CatalogChanged(cardID string, catalog []models.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Error().Err(err).Str("card_id", cardID).Msg("failed to load card for callback")
		}
		return
	}
	if card.CallbackURL == "" {
		return
	}

	payload, err := json.Marshal(catalogPayload{
		Event:     catalogWebhookEvent,
		CardID:    card.ID,
		Catalog:   catalog,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Error().Err(err).Str("card_id", cardID).Msg("failed to marshal callback payload")
		return
	}

	entry := &models.CallbackLog{
		CardID:  card.ID,
		Event:   catalogWebhookEvent,
		Payload: payload,
		Attempt: 1,
	}
	s.deliver(card, entry)

	if err := s.logs.CreateCallbackLog(entry); err != nil {
		log.Error().Err(err).Str("card_id", cardID).Msg("failed to create callback log")
	}
}

// deliver performs one HTTP POST attempt and records the outcome on entry.
// Undelivered entries get a next retry time; the worker picks them up.
func (s *CallbackService) deliver(card *models.Card, entry *models.CallbackLog) {
	signature := utils.GenerateSignature(entry.Payload, card.CallbackSecret)

	req, err := http.NewRequest(http.MethodPost, card.CallbackURL, bytes.NewReader(entry.Payload))
	if err != nil {
		log.Error().Err(err).Str("card_id", card.ID).Msg("failed to create callback request")
		s.scheduleRetry(entry)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Callback-Signature", "sha256="+signature)
	req.Header.Set("X-DBC-Event", entry.Event)
	req.Header.Set("X-DBC-Timestamp", time.Now().Format(time.RFC3339))

	resp, err := s.httpClient.Do(req)

	// read response body (best effort)
	if resp != nil {
		defer resp.Body.Close()
		sc := resp.StatusCode
		entry.HTTPStatus = &sc
		bodyBytes, _ := io.ReadAll(resp.Body)
		if body := string(bodyBytes); body != "" {
			entry.ResponseBody = &body
		}
	}

	entry.IsDelivered = err == nil && resp != nil && resp.StatusCode == http.StatusOK
	if !entry.IsDelivered {
		s.scheduleRetry(entry)
	}
}

// RetryPendingCallbacks re-attempts every undelivered callback that is due
// and returns how many were processed. Called by the callback worker on a
// fixed interval.
func (s *CallbackService) RetryPendingCallbacks() (int, error) {
	pending, err := s.logs.GetPendingCallbacks()
	if err != nil {
		return 0, err
	}

	for i := range pending {
		entry := &pending[i]

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		card, err := s.cards.GetByID(ctx, entry.CardID)
		cancel()
		if err == sql.ErrNoRows || (err == nil && card.CallbackURL == "") {
			// Card gone or callbacks disabled since: stop retrying.
			entry.IsDelivered = true
			_ = s.logs.UpdateCallbackLog(entry)
			continue
		}
		if err != nil {
			// Transient lookup failure: leave the entry pending for the
			// next worker pass.
			log.Error().Err(err).Int("callback_id", entry.ID).Msg("failed to load card for retry")
			continue
		}

		entry.Attempt++
		s.deliver(card, entry)
		if err := s.logs.UpdateCallbackLog(entry); err != nil {
			log.Error().Err(err).Int("callback_id", entry.ID).Msg("failed to update callback log")
		}
	}
	return len(pending), nil
}

// scheduleRetry sets the next retry time based on attempt number.
// Retry intervals: 30s, 1m, 5m, 30m, 2h
func (s *CallbackService) scheduleRetry(entry *models.CallbackLog) {
	intervals := []time.Duration{
		30 * time.Second,
		1 * time.Minute,
		5 * time.Minute,
		30 * time.Minute,
		2 * time.Hour,
	}
	if entry.Attempt >= len(intervals) {
		entry.NextRetryAt = nil
		return
	}
	next := time.Now().Add(intervals[entry.Attempt])
	entry.NextRetryAt = &next
}
