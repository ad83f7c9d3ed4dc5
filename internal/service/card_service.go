package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
	"github.com/yashvavaliya/DBC-new-section/internal/utils"
)

// CardStore is the record-store surface the card service needs. The Postgres
// repository satisfies it; tests substitute an in-memory store.
type CardStore interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id string) (*models.Card, error)
	GetBySlug(ctx context.Context, slug string) (*models.Card, error)
	ListByUser(ctx context.Context, userID int) ([]models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	UpdateCallbackSecret(ctx context.Context, id, secret string) error
	SlugAvailable(ctx context.Context, slug string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// Card lookup and validation errors surfaced to handlers.
var (
	ErrCardNotFound  = errors.New("card not found")
	ErrSlugTaken     = errors.New("slug already exists")
	ErrInvalidSlug   = errors.New("slug may only contain lowercase letters, digits, and hyphens")
	ErrTitleMissing  = errors.New("card title is required")
	ErrCardForbidden = errors.New("card does not belong to user")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CardService handles card CRUD for the admin panel and public card reads.
type CardService struct {
	cards CardStore
}

// NewCardService constructs a CardService.
func NewCardService(cards CardStore) *CardService {
	return &CardService{cards: cards}
}

// CreateCardRequest represents the request to create a new card.
type CreateCardRequest struct {
	Slug           string `json:"slug" binding:"required"`
	Title          string `json:"title" binding:"required"`
	GlobalUsername string `json:"globalUsername"`
	CallbackURL    string `json:"callbackUrl"`
	IsPublished    bool   `json:"isPublished"`
}

// UpdateCardRequest represents the request to update a card. Empty fields are
// left unchanged; IsPublished uses a pointer so false is expressible.
type UpdateCardRequest struct {
	Slug           string  `json:"slug"`
	Title          string  `json:"title"`
	GlobalUsername *string `json:"globalUsername"`
	CallbackURL    *string `json:"callbackUrl"`
	IsPublished    *bool   `json:"isPublished"`
}

// CreateCard creates a card for a user. A callback secret is generated up
// front so webhook delivery can be enabled by just setting a callback URL.
func (s *CardService) CreateCard(ctx context.Context, userID int, req *CreateCardRequest) (*models.Card, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}
	if req.Title == "" {
		return nil, ErrTitleMissing
	}

	available, err := s.cards.SlugAvailable(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrSlugTaken
	}

	secret, err := utils.GenerateCallbackSecret()
	if err != nil {
		return nil, err
	}

	card := &models.Card{
		UserID:         userID,
		Slug:           slug,
		Title:          req.Title,
		GlobalUsername: req.GlobalUsername,
		CallbackURL:    req.CallbackURL,
		CallbackSecret: secret,
		IsPublished:    req.IsPublished,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// GetCard retrieves a card by id, enforcing ownership.
func (s *CardService) GetCard(ctx context.Context, userID int, id string) (*models.Card, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if card.UserID != userID {
		return nil, ErrCardForbidden
	}
	return card, nil
}

// GetPublishedBySlug retrieves a published card for the public view. The
// callback secret is cleared before returning.
func (s *CardService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Card, error) {
	card, err := s.cards.GetBySlug(ctx, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if !card.IsPublished {
		return nil, ErrCardNotFound
	}
	card.CallbackSecret = ""
	return card, nil
}

// ListCards returns all cards owned by a user.
func (s *CardService) ListCards(ctx context.Context, userID int) ([]models.Card, error) {
	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}

// UpdateCard applies the non-empty fields of req to a card.
func (s *CardService) UpdateCard(ctx context.Context, userID int, id string, req *UpdateCardRequest) (*models.Card, error) {
	card, err := s.GetCard(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != "" {
		slug := strings.ToLower(strings.TrimSpace(req.Slug))
		if !slugPattern.MatchString(slug) {
			return nil, ErrInvalidSlug
		}
		if slug != card.Slug {
			available, err := s.cards.SlugAvailable(ctx, slug)
			if err != nil {
				return nil, err
			}
			if !available {
				return nil, ErrSlugTaken
			}
			card.Slug = slug
		}
	}
	if req.Title != "" {
		card.Title = req.Title
	}
	if req.GlobalUsername != nil {
		card.GlobalUsername = *req.GlobalUsername
	}
	if req.CallbackURL != nil {
		card.CallbackURL = *req.CallbackURL
	}
	if req.IsPublished != nil {
		card.IsPublished = *req.IsPublished
	}

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteCard removes a card the user owns, along with its products, social
// links and callback logs.
func (s *CardService) DeleteCard(ctx context.Context, userID int, id string) error {
	card, err := s.GetCard(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, card.ID); err != nil {
		if err == sql.ErrNoRows {
			return ErrCardNotFound
		}
		return err
	}
	return nil
}

// RegenerateCallbackSecret replaces a card's webhook signing secret.
func (s *CardService) RegenerateCallbackSecret(ctx context.Context, userID int, id string) (*models.Card, error) {
	card, err := s.GetCard(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	secret, err := utils.GenerateCallbackSecret()
	if err != nil {
		return nil, err
	}
	if err := s.cards.UpdateCallbackSecret(ctx, card.ID, secret); err != nil {
		return nil, err
	}
	card.CallbackSecret = secret
	return card, nil
}
