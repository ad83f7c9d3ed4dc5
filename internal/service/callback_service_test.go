package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
	"github.com/yashvavaliya/DBC-new-section/internal/utils"
)

// fakeCardSource serves one card, or fails with err.
type fakeCardSource struct {
	card *models.Card
	err  error
}

func (f *fakeCardSource) GetByID(_ context.Context, id string) (*models.Card, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.card == nil || f.card.ID != id {
		return nil, sql.ErrNoRows
	}
	cp := *f.card
	return &cp, nil
}

// fakeLogStore keeps callback logs in memory.
type fakeLogStore struct {
	created []models.CallbackLog
	updated []models.CallbackLog
	pending []models.CallbackLog
}

func (f *fakeLogStore) CreateCallbackLog(entry *models.CallbackLog) error {
	f.created = append(f.created, *entry)
	return nil
}

func (f *fakeLogStore) UpdateCallbackLog(entry *models.CallbackLog) error {
	f.updated = append(f.updated, *entry)
	return nil
}

func (f *fakeLogStore) GetPendingCallbacks() ([]models.CallbackLog, error) {
	return f.pending, nil
}

func TestCatalogChangedDeliversSignedPayload(t *testing.T) {
	var gotSignature, gotEvent string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Callback-Signature")
		gotEvent = r.Header.Get("X-DBC-Event")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cards := &fakeCardSource{card: &models.Card{
		ID:             "card-1",
		CallbackURL:    server.URL,
		CallbackSecret: "s3cret",
	}}
	logs := &fakeLogStore{}
	svc := NewCallbackService(cards, logs)

	svc.CatalogChanged("card-1", []models.Product{{ID: "p-1", Title: "Widget"}})

	require.Len(t, logs.created, 1)
	entry := logs.created[0]
	assert.True(t, entry.IsDelivered)
	assert.Equal(t, 1, entry.Attempt)
	assert.Equal(t, "catalog.updated", gotEvent)
	assert.Equal(t, "sha256="+utils.GenerateSignature(gotBody, "s3cret"), gotSignature)
}

func TestCatalogChangedSkipsCardsWithoutCallbackURL(t *testing.T) {
	cards := &fakeCardSource{card: &models.Card{ID: "card-1"}}
	logs := &fakeLogStore{}
	svc := NewCallbackService(cards, logs)

	svc.CatalogChanged("card-1", nil)

	assert.Empty(t, logs.created, "no delivery log without a callback URL")
}

func TestRetryPendingCallbacksDelivers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cards := &fakeCardSource{card: &models.Card{
		ID:             "card-1",
		CallbackURL:    server.URL,
		CallbackSecret: "s3cret",
	}}
	logs := &fakeLogStore{pending: []models.CallbackLog{
		{ID: 7, CardID: "card-1", Event: "catalog.updated", Payload: []byte(`{}`), Attempt: 1},
	}}
	svc := NewCallbackService(cards, logs)

	n, err := svc.RetryPendingCallbacks()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, logs.updated, 1)
	assert.True(t, logs.updated[0].IsDelivered)
	assert.Equal(t, 2, logs.updated[0].Attempt)
}

func TestRetryStopsWhenCardGone(t *testing.T) {
	cards := &fakeCardSource{}
	logs := &fakeLogStore{pending: []models.CallbackLog{
		{ID: 7, CardID: "card-1", Event: "catalog.updated", Payload: []byte(`{}`), Attempt: 1},
	}}
	svc := NewCallbackService(cards, logs)

	_, err := svc.RetryPendingCallbacks()
	require.NoError(t, err)
	require.Len(t, logs.updated, 1)
	assert.True(t, logs.updated[0].IsDelivered, "deleted card retires the entry")
}

func TestRetryLeavesEntryPendingOnLookupFailure(t *testing.T) {
	cards := &fakeCardSource{err: errors.New("connection refused")}
	logs := &fakeLogStore{pending: []models.CallbackLog{
		{ID: 7, CardID: "card-1", Event: "catalog.updated", Payload: []byte(`{}`), Attempt: 1},
	}}
	svc := NewCallbackService(cards, logs)

	_, err := svc.RetryPendingCallbacks()
	require.NoError(t, err)
	assert.Empty(t, logs.updated, "a transient failure must not touch the entry")
}
