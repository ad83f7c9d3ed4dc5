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

// CardHandler handles card HTTP endpoints.
type CardHandler struct {
	cardService    *service.CardService
	catalogService *service.CatalogService
	socialService  *service.SocialService
}

// NewCardHandler constructs a CardHandler.
func NewCardHandler(cardService *service.CardService, catalogService *service.CatalogService, socialService *service.SocialService) *CardHandler {
	return &CardHandler{
		cardService:    cardService,
		catalogService: catalogService,
		socialService:  socialService,
	}
}

// publicLink is a social link decorated for the public card view.
type publicLink struct {
	models.SocialLink
	DisplayName string `json:"displayName"`
	LogoURL     string `json:"logoUrl"`
}

// GetPublicCard handles GET /v1/cards/:slug
// Returns the published card together with its catalog and social links, so
// the public page renders from a single request.
func (h *CardHandler) GetPublicCard(c *gin.Context) {
	ctx := c.Request.Context()

	card, err := h.cardService.GetPublishedBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			utils.Error(c, 404, "CARD_NOT_FOUND", "Card not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve card")
		return
	}

	catalog, err := h.catalogService.LoadCatalog(ctx, card.ID)
	if err != nil {
		log.Error().Err(err).Str("card_id", card.ID).Msg("Failed to load catalog")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load card contents")
		return
	}

	links, err := h.socialService.ListLinks(ctx, card.ID)
	if err != nil {
		log.Error().Err(err).Str("card_id", card.ID).Msg("Failed to load social links")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load card contents")
		return
	}

	decorated := make([]publicLink, 0, len(links))
	for _, l := range links {
		decorated = append(decorated, publicLink{
			SocialLink:  l,
			DisplayName: social.DisplayName(l.Platform, l.IsAutoSynced),
			LogoURL:     social.LogoURL(l.Platform, l.URL),
		})
	}

	utils.Success(c, 200, "Card retrieved", gin.H{
		"card":        card,
		"products":    renderCatalog(catalog),
		"socialLinks": decorated,
	})
}

// ListCards handles GET /v1/admin/cards
func (h *CardHandler) ListCards(c *gin.Context) {
	cards, err := h.cardService.ListCards(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list cards")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list cards")
		return
	}
	utils.Success(c, 200, "Cards retrieved", cards)
}

// CreateCard handles POST /v1/admin/cards
func (h *CardHandler) CreateCard(c *gin.Context) {
	var req service.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), c.GetInt("user_id"), &req)
	if err != nil {
		h.cardError(c, err)
		return
	}
	utils.Success(c, 201, "Card created successfully", card)
}

// GetCard handles GET /v1/admin/cards/:id
func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.cardService.GetCard(c.Request.Context(), c.GetInt("user_id"), c.Param("id"))
	if err != nil {
		h.cardError(c, err)
		return
	}
	utils.Success(c, 200, "Card retrieved", card)
}

// UpdateCard handles PUT /v1/admin/cards/:id
func (h *CardHandler) UpdateCard(c *gin.Context) {
	var req service.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	card, err := h.cardService.UpdateCard(c.Request.Context(), c.GetInt("user_id"), c.Param("id"), &req)
	if err != nil {
		h.cardError(c, err)
		return
	}
	utils.Success(c, 200, "Card updated successfully", card)
}

// DeleteCard handles DELETE /v1/admin/cards/:id
func (h *CardHandler) DeleteCard(c *gin.Context) {
	if err := h.cardService.DeleteCard(c.Request.Context(), c.GetInt("user_id"), c.Param("id")); err != nil {
		h.cardError(c, err)
		return
	}
	utils.Success(c, 200, "Card deleted successfully", nil)
}

// RegenerateSecret handles POST /v1/admin/cards/:id/regenerate-secret
func (h *CardHandler) RegenerateSecret(c *gin.Context) {
	card, err := h.cardService.RegenerateCallbackSecret(c.Request.Context(), c.GetInt("user_id"), c.Param("id"))
	if err != nil {
		h.cardError(c, err)
		return
	}
	utils.Success(c, 200, "Callback secret regenerated", card)
}

func (h *CardHandler) cardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSlug), errors.Is(err, service.ErrTitleMissing):
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
	case errors.Is(err, service.ErrSlugTaken):
		utils.Error(c, 409, "SLUG_TAKEN", err.Error())
	case errors.Is(err, service.ErrCardNotFound):
		utils.Error(c, 404, "CARD_NOT_FOUND", "Card not found")
	case errors.Is(err, service.ErrCardForbidden):
		utils.Error(c, 403, "FORBIDDEN", "Card does not belong to user")
	default:
		log.Error().Err(err).Msg("Card operation failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Card operation failed")
	}
}
