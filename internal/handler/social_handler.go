package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
	"github.com/yashvavaliya/DBC-new-section/internal/service"
	"github.com/yashvavaliya/DBC-new-section/internal/utils"
	"github.com/yashvavaliya/DBC-new-section/pkg/social"
)

// SocialHandler handles social link HTTP endpoints.
type SocialHandler struct {
	socialService *service.SocialService
	cardService   *service.CardService
}

// NewSocialHandler constructs a SocialHandler.
func NewSocialHandler(socialService *service.SocialService, cardService *service.CardService) *SocialHandler {
	return &SocialHandler{socialService: socialService, cardService: cardService}
}

// ListPlatforms handles GET /v1/social/platforms
func (h *SocialHandler) ListPlatforms(c *gin.Context) {
	utils.Success(c, 200, "Platforms retrieved", social.Platforms())
}

// ListLinks handles GET /v1/admin/cards/:id/social-links
func (h *SocialHandler) ListLinks(c *gin.Context) {
	card, ok := h.ownedCard(c)
	if !ok {
		return
	}

	links, err := h.socialService.ListLinks(c.Request.Context(), card.ID)
	if err != nil {
		log.Error().Err(err).Str("card_id", card.ID).Msg("Failed to list social links")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list social links")
		return
	}
	utils.Success(c, 200, "Social links retrieved", links)
}

// ReplaceLinks handles PUT /v1/admin/cards/:id/social-links
func (h *SocialHandler) ReplaceLinks(c *gin.Context) {
	card, ok := h.ownedCard(c)
	if !ok {
		return
	}

	var req struct {
		Links []service.SocialLinkInput `json:"links"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	links, err := h.socialService.ReplaceLinks(c.Request.Context(), card.ID, req.Links)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPlatform) {
			utils.Error(c, 400, "UNKNOWN_PLATFORM", err.Error())
			return
		}
		log.Error().Err(err).Str("card_id", card.ID).Msg("Failed to replace social links")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to save social links")
		return
	}
	utils.Success(c, 200, "Social links saved", links)
}

// AutoSync handles POST /v1/admin/cards/:id/social-links/auto-sync
func (h *SocialHandler) AutoSync(c *gin.Context) {
	card, ok := h.ownedCard(c)
	if !ok {
		return
	}

	links, err := h.socialService.AutoSync(c.Request.Context(), card)
	if err != nil {
		if errors.Is(err, service.ErrGlobalUsernameMissing) {
			utils.Error(c, 400, "GLOBAL_USERNAME_MISSING", err.Error())
			return
		}
		log.Error().Err(err).Str("card_id", card.ID).Msg("Failed to auto-sync social links")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to auto-sync social links")
		return
	}
	utils.Success(c, 200, "Social links auto-synced", links)
}

func (h *SocialHandler) ownedCard(c *gin.Context) (*models.Card, bool) {
	card, err := h.cardService.GetCard(c.Request.Context(), c.GetInt("user_id"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFound):
			utils.Error(c, 404, "CARD_NOT_FOUND", "Card not found")
		case errors.Is(err, service.ErrCardForbidden):
			utils.Error(c, 403, "FORBIDDEN", "Card does not belong to user")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve card")
		}
		return nil, false
	}
	return card, true
}
