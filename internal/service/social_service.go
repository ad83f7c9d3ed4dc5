package service

import (
	"context"
	"errors"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
	"github.com/yashvavaliya/DBC-new-section/internal/repository"
	"github.com/yashvavaliya/DBC-new-section/pkg/social"
)

// Social link validation errors surfaced to handlers.
var (
	ErrUnknownPlatform       = errors.New("unknown social platform")
	ErrGlobalUsernameMissing = errors.New("card has no global username to auto-sync from")
)

// SocialLinkInput is one link entry in a replace request. URL is derived from
// the platform and username when omitted.
type SocialLinkInput struct {
	Platform string `json:"platform" binding:"required"`
	Username string `json:"username" binding:"required"`
	URL      string `json:"url"`
}

// SocialService manages a card's social links on top of the stateless
// platform mapping in pkg/social.
type SocialService struct {
	linkRepo *repository.SocialLinkRepository
	cardRepo *repository.CardRepository
}

// NewSocialService constructs a SocialService.
func NewSocialService(linkRepo *repository.SocialLinkRepository, cardRepo *repository.CardRepository) *SocialService {
	return &SocialService{linkRepo: linkRepo, cardRepo: cardRepo}
}

// ListLinks returns a card's social links in display order.
func (s *SocialService) ListLinks(ctx context.Context, cardID string) ([]models.SocialLink, error) {
	links, err := s.linkRepo.ListByCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []models.SocialLink{}
	}
	return links, nil
}

// ReplaceLinks overwrites a card's social link set wholesale with the given
// sequence, deriving canonical URLs for known platforms.
func (s *SocialService) ReplaceLinks(ctx context.Context, cardID string, inputs []SocialLinkInput) ([]models.SocialLink, error) {
	links := make([]models.SocialLink, 0, len(inputs))
	for _, in := range inputs {
		if _, ok := social.Lookup(in.Platform); !ok {
			return nil, ErrUnknownPlatform
		}
		url := in.URL
		if url == "" {
			url = social.GenerateLink(in.Platform, in.Username)
		}
		links = append(links, models.SocialLink{
			CardID:   cardID,
			Platform: in.Platform,
			Username: in.Username,
			URL:      url,
		})
	}

	if err := s.linkRepo.Replace(ctx, cardID, links); err != nil {
		return nil, err
	}
	return s.ListLinks(ctx, cardID)
}

// AutoSync replaces a card's links with one entry per auto-syncable platform,
// all derived from the card's global username. Platforms that cannot share a
// username (WhatsApp, Discord, Custom Link) are excluded.
func (s *SocialService) AutoSync(ctx context.Context, card *models.Card) ([]models.SocialLink, error) {
	if card.GlobalUsername == "" {
		return nil, ErrGlobalUsernameMissing
	}

	generated := social.GenerateAutoSyncedLinks(card.GlobalUsername)
	links := make([]models.SocialLink, 0, len(generated))
	for _, g := range generated {
		links = append(links, models.SocialLink{
			CardID:       card.ID,
			Platform:     g.Platform,
			Username:     g.Username,
			URL:          g.URL,
			IsAutoSynced: true,
		})
	}

	if err := s.linkRepo.Replace(ctx, card.ID, links); err != nil {
		return nil, err
	}
	return s.ListLinks(ctx, card.ID)
}
