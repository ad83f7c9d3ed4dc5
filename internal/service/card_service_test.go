package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
)

// fakeCardStore is an in-memory CardStore.
type fakeCardStore struct {
	cards  map[string]*models.Card
	nextID int
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: map[string]*models.Card{}}
}

func (f *fakeCardStore) Create(_ context.Context, card *models.Card) error {
	f.nextID++
	card.ID = fmt.Sprintf("card-%d", f.nextID)
	cp := *card
	f.cards[card.ID] = &cp
	return nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id string) (*models.Card, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *card
	return &cp, nil
}

func (f *fakeCardStore) GetBySlug(_ context.Context, slug string) (*models.Card, error) {
	for _, card := range f.cards {
		if card.Slug == slug {
			cp := *card
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCardStore) ListByUser(_ context.Context, userID int) ([]models.Card, error) {
	var out []models.Card
	for _, card := range f.cards {
		if card.UserID == userID {
			out = append(out, *card)
		}
	}
	return out, nil
}

func (f *fakeCardStore) Update(_ context.Context, card *models.Card) error {
	if _, ok := f.cards[card.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *card
	f.cards[card.ID] = &cp
	return nil
}

func (f *fakeCardStore) UpdateCallbackSecret(_ context.Context, id, secret string) error {
	card, ok := f.cards[id]
	if !ok {
		return sql.ErrNoRows
	}
	card.CallbackSecret = secret
	return nil
}

func (f *fakeCardStore) SlugAvailable(_ context.Context, slug string) (bool, error) {
	for _, card := range f.cards {
		if card.Slug == slug {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeCardStore) Delete(_ context.Context, id string) error {
	if _, ok := f.cards[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.cards, id)
	return nil
}

func seedCard(store *fakeCardStore, userID int, slug string) *models.Card {
	card := &models.Card{
		UserID:      userID,
		Slug:        slug,
		Title:       "Card " + slug,
		IsPublished: true,
	}
	_ = store.Create(context.Background(), card)
	return card
}

func TestCreateCardValidation(t *testing.T) {
	svc := NewCardService(newFakeCardStore())
	ctx := context.Background()

	_, err := svc.CreateCard(ctx, 1, &CreateCardRequest{Slug: "Not Valid!", Title: "A"})
	assert.ErrorIs(t, err, ErrInvalidSlug)

	_, err = svc.CreateCard(ctx, 1, &CreateCardRequest{Slug: "valid-slug"})
	assert.ErrorIs(t, err, ErrTitleMissing)
}

func TestCreateCardSlugTaken(t *testing.T) {
	store := newFakeCardStore()
	seedCard(store, 1, "acme")
	svc := NewCardService(store)

	_, err := svc.CreateCard(context.Background(), 2, &CreateCardRequest{Slug: "acme", Title: "Other"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestDeleteCard(t *testing.T) {
	store := newFakeCardStore()
	card := seedCard(store, 1, "acme")
	svc := NewCardService(store)

	require.NoError(t, svc.DeleteCard(context.Background(), 1, card.ID))
	_, ok := store.cards[card.ID]
	assert.False(t, ok)
}

func TestDeleteCardOwnership(t *testing.T) {
	store := newFakeCardStore()
	card := seedCard(store, 1, "acme")
	svc := NewCardService(store)
	ctx := context.Background()

	err := svc.DeleteCard(ctx, 2, card.ID)
	assert.ErrorIs(t, err, ErrCardForbidden)
	_, ok := store.cards[card.ID]
	assert.True(t, ok, "card must survive a delete by a different user")

	assert.ErrorIs(t, svc.DeleteCard(ctx, 1, "missing"), ErrCardNotFound)
}

func TestGetPublishedBySlugHidesSecret(t *testing.T) {
	store := newFakeCardStore()
	card := seedCard(store, 1, "acme")
	store.cards[card.ID].CallbackSecret = "topsecret"
	svc := NewCardService(store)

	got, err := svc.GetPublishedBySlug(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, got.CallbackSecret)
}
