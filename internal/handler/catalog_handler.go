package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yashvavaliya/DBC-new-section/internal/markup"
	"github.com/yashvavaliya/DBC-new-section/internal/models"
	"github.com/yashvavaliya/DBC-new-section/internal/service"
	"github.com/yashvavaliya/DBC-new-section/internal/utils"
)

// CatalogHandler handles product catalog HTTP endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
	cardService    *service.CardService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService, cardService *service.CardService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, cardService: cardService}
}

// renderedProduct decorates a product with its tokenized description for
// clients that render the lightweight markup, plus a marker-free plain-text
// form for previews and link unfurls.
type renderedProduct struct {
	models.Product
	DescriptionLines []markup.Line `json:"descriptionLines"`
	DescriptionText  string        `json:"descriptionText"`
}

func renderCatalog(catalog []models.Product) []renderedProduct {
	out := make([]renderedProduct, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, renderedProduct{
			Product:          p,
			DescriptionLines: markup.Render(p.Description),
			DescriptionText:  markup.StripMarkers(p.Description),
		})
	}
	return out
}

// GetPublicCatalog handles GET /v1/cards/:slug/products
func (h *CatalogHandler) GetPublicCatalog(c *gin.Context) {
	card, err := h.cardService.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			utils.Error(c, 404, "CARD_NOT_FOUND", "Card not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve card")
		return
	}

	catalog, err := h.catalogService.LoadCatalog(c.Request.Context(), card.ID)
	if err != nil {
		// Fail closed: never show a partial catalog.
		log.Error().Err(err).Str("card_id", card.ID).Msg("Failed to load catalog")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load products")
		return
	}

	utils.Success(c, 200, "Products retrieved", renderCatalog(catalog))
}

// ListProducts handles GET /v1/admin/cards/:id/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	card, ok := h.ownedCard(c)
	if !ok {
		return
	}

	catalog, err := h.catalogService.LoadCatalog(c.Request.Context(), card.ID)
	if err != nil {
		log.Error().Err(err).Str("card_id", card.ID).Msg("Failed to load catalog")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load products")
		return
	}

	utils.Success(c, 200, "Products retrieved", catalog)
}

// CreateProduct handles POST /v1/admin/cards/:id/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	card, ok := h.ownedCard(c)
	if !ok {
		return
	}

	var draft service.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	catalog, err := h.catalogService.SaveProduct(c.Request.Context(), card.ID, "", &draft)
	if err != nil {
		h.saveError(c, card.ID, err)
		return
	}

	utils.Success(c, 201, "Product saved successfully", catalog)
}

// UpdateProduct handles PUT /v1/admin/cards/:id/products/:productId
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	card, ok := h.ownedCard(c)
	if !ok {
		return
	}

	var draft service.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	catalog, err := h.catalogService.SaveProduct(c.Request.Context(), card.ID, c.Param("productId"), &draft)
	if err != nil {
		h.saveError(c, card.ID, err)
		return
	}

	utils.Success(c, 200, "Product saved successfully", catalog)
}

// DeleteProduct handles DELETE /v1/admin/cards/:id/products/:productId
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	card, ok := h.ownedCard(c)
	if !ok {
		return
	}

	catalog, err := h.catalogService.DeleteProduct(c.Request.Context(), card.ID, c.Param("productId"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		log.Error().Err(err).Str("card_id", card.ID).Msg("Failed to delete product")
		utils.Error(c, 500, "DELETE_FAILED", "Failed to delete product. Please try again.")
		return
	}

	utils.Success(c, 200, "Product deleted successfully", catalog)
}

// ownedCard resolves the :id path parameter to a card owned by the
// authenticated user, writing the error response itself on failure.
func (h *CatalogHandler) ownedCard(c *gin.Context) (*models.Card, bool) {
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

// saveError maps catalog save failures to API responses.
func (h *CatalogHandler) saveError(c *gin.Context, cardID string, err error) {
	switch {
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrDescriptionRequired),
		errors.Is(err, service.ErrInvalidAlignment),
		errors.Is(err, service.ErrInvalidInquiryType):
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
	case errors.Is(err, service.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	default:
		log.Error().Err(err).Str("card_id", cardID).Msg("Failed to save product")
		utils.Error(c, 500, "SAVE_FAILED", "Failed to save product. Please try again.")
	}
}
