package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
)

// CatalogStore is the narrow record-store surface the catalog service needs:
// ordered selects for products and their children, an atomic save with
// wholesale child replace, and a cascading delete.
type CatalogStore interface {
	ListProducts(ctx context.Context, cardID string) ([]models.Product, error)
	CountProducts(ctx context.Context, cardID string) (int, error)
	ListImages(ctx context.Context, productID string) ([]models.ProductImage, error)
	ListInquiries(ctx context.Context, productID string) ([]models.ProductInquiry, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, cardID, id string) error
}

// CatalogCacheStore caches assembled catalogs per card. A nil Get result with
// nil error means cache miss.
type CatalogCacheStore interface {
	Get(ctx context.Context, cardID string) ([]models.Product, error)
	Set(ctx context.Context, cardID string, catalog []models.Product) error
	Invalidate(ctx context.Context, cardID string) error
}

// CatalogListener is told the full refreshed catalog after every successful
// write. Listeners always receive the complete catalog, never diffs.
type CatalogListener interface {
	CatalogChanged(cardID string, catalog []models.Product)
}

// Validation and lookup errors surfaced to handlers.
var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidAlignment    = errors.New("text alignment must be left, center, or right")
	ErrInvalidInquiryType  = errors.New("inquiry type must be link, phone, whatsapp, or email")
	ErrProductNotFound     = errors.New("product not found")
)

// ProductDraft is the in-progress edit buffer for a single product. It is a
// plain value the caller owns; Validate rejects incomplete drafts before any
// store call is made.
type ProductDraft struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Price       string                  `json:"price"`
	Category    string                  `json:"category"`
	TextAlign   models.TextAlign        `json:"textAlign"`
	IsFeatured  bool                    `json:"isFeatured"`
	IsActive    *bool                   `json:"isActive"`
	Images      []models.ProductImage   `json:"images"`
	Inquiries   []models.ProductInquiry `json:"inquiries"`
}

// Validate checks the draft's mandatory fields and enum values. Alignment
// defaults to left when unset.
func (d *ProductDraft) Validate() error {
	if d.Title == "" {
		return ErrTitleRequired
	}
	if d.Description == "" {
		return ErrDescriptionRequired
	}
	switch d.TextAlign {
	case "":
		d.TextAlign = models.AlignLeft
	case models.AlignLeft, models.AlignCenter, models.AlignRight:
	default:
		return ErrInvalidAlignment
	}
	for i := range d.Inquiries {
		if !models.ValidInquiryType(d.Inquiries[i].Type) {
			return ErrInvalidInquiryType
		}
	}
	return nil
}

// active resolves the draft's active flag; products default to active.
func (d *ProductDraft) active() bool {
	if d.IsActive == nil {
		return true
	}
	return *d.IsActive
}

// CatalogService owns the lifecycle of a card's product catalog: load, save
// with nested child management, and delete, kept in sync with the record store.
type CatalogService struct {
	store     CatalogStore
	cache     CatalogCacheStore
	listeners []CatalogListener
}

// NewCatalogService constructs a CatalogService. cache may be nil; listeners
// are notified with the refreshed catalog after every successful write.
func NewCatalogService(store CatalogStore, cache CatalogCacheStore, listeners ...CatalogListener) *CatalogService {
	return &CatalogService{
		store:     store,
		cache:     cache,
		listeners: listeners,
	}
}

// LoadCatalog returns the card's fully populated products ordered by
// display_order. Per-product image and inquiry fetches run concurrently.
// Fail-closed: any fetch error aborts the whole load so callers never see a
// partial catalog.
func (s *CatalogService) LoadCatalog(ctx context.Context, cardID string) ([]models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cardID)
		if err != nil {
			log.Warn().Err(err).Str("card_id", cardID).Msg("catalog cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	products, err := s.store.ListProducts(ctx, cardID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range products {
		p := &products[i]
		g.Go(func() error {
			images, err := s.store.ListImages(gctx, p.ID)
			if err != nil {
				return err
			}
			if images == nil {
				images = []models.ProductImage{}
			}
			p.Images = images
			return nil
		})
		g.Go(func() error {
			inquiries, err := s.store.ListInquiries(gctx, p.ID)
			if err != nil {
				return err
			}
			if inquiries == nil {
				inquiries = []models.ProductInquiry{}
			}
			p.Inquiries = inquiries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if products == nil {
		products = []models.Product{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cardID, products); err != nil {
			log.Warn().Err(err).Str("card_id", cardID).Msg("catalog cache write failed")
		}
	}
	return products, nil
}

// SaveProduct creates a new product (existingID empty) or overwrites an
// existing one, replacing provided child sequences wholesale. An empty image
// or inquiry sequence in the draft means "no change requested", not "clear
// all". The existing product must belong to cardID; a product id from another
// card reports ErrProductNotFound. On success the full catalog is reloaded and
// listeners notified.
func (s *CatalogService) SaveProduct(ctx context.Context, cardID, existingID string, draft *ProductDraft) ([]models.Product, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          existingID,
		CardID:      cardID,
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Category:    draft.Category,
		TextAlign:   draft.TextAlign,
		IsFeatured:  draft.IsFeatured,
		IsActive:    draft.active(),
		Images:      draft.Images,
		Inquiries:   draft.Inquiries,
	}

	if existingID == "" {
		count, err := s.store.CountProducts(ctx, cardID)
		if err != nil {
			return nil, err
		}
		// Append-to-end policy: new products take the next position.
		product.DisplayOrder = count
	}

	if err := s.store.SaveProduct(ctx, product); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return s.refresh(ctx, cardID)
}

// DeleteProduct removes one of the card's products and reloads the catalog.
// The store cascades the delete to image and inquiry children and rejects
// product ids belonging to a different card.
func (s *CatalogService) DeleteProduct(ctx context.Context, cardID, id string) ([]models.Product, error) {
	if err := s.store.DeleteProduct(ctx, cardID, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.refresh(ctx, cardID)
}

// refresh invalidates the cache, reloads the catalog and fans the result out
// to listeners.
func (s *CatalogService) refresh(ctx context.Context, cardID string) ([]models.Product, error) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cardID); err != nil {
			log.Warn().Err(err).Str("card_id", cardID).Msg("catalog cache invalidation failed")
		}
	}

	catalog, err := s.LoadCatalog(ctx, cardID)
	if err != nil {
		return nil, err
	}

	for _, l := range s.listeners {
		l.CatalogChanged(cardID, catalog)
	}
	return catalog, nil
}
