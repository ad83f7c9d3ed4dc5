package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
)

// CatalogRepository handles data access for a card's product catalog:
// products_services rows plus their image and inquiry child tables.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListProducts returns all products for a card ordered by display_order ascending.
// Child collections are not populated here.
func (r *CatalogRepository) ListProducts(ctx context.Context, cardID string) ([]models.Product, error) {
	const q = `
        SELECT * FROM products_services
        WHERE card_id = $1
        ORDER BY display_order ASC`

	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, q, cardID); err != nil {
		return nil, err
	}
	return products, nil
}

// CountProducts returns the number of products a card currently has. New
// products are appended at the end, so this doubles as the next display_order.
func (r *CatalogRepository) CountProducts(ctx context.Context, cardID string) (int, error) {
	const q = `SELECT COUNT(1) FROM products_services WHERE card_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, q, cardID); err != nil {
		return 0, err
	}
	return count, nil
}

// ListImages returns a product's active images ordered by display_order ascending.
// Soft-deleted (inactive) images never appear in reads.
func (r *CatalogRepository) ListImages(ctx context.Context, productID string) ([]models.ProductImage, error) {
	const q = `
        SELECT * FROM product_images
        WHERE product_id = $1 AND is_active = true
        ORDER BY display_order ASC`

	var images []models.ProductImage
	if err := r.db.SelectContext(ctx, &images, q, productID); err != nil {
		return nil, err
	}
	return images, nil
}

// ListInquiries returns a product's full inquiry set.
func (r *CatalogRepository) ListInquiries(ctx context.Context, productID string) ([]models.ProductInquiry, error) {
	const q = `SELECT * FROM product_inquiries WHERE product_id = $1`

	var inquiries []models.ProductInquiry
	if err := r.db.SelectContext(ctx, &inquiries, q, productID); err != nil {
		return nil, err
	}
	return inquiries, nil
}

// SaveProduct creates or overwrites a product and, when child sequences are
// provided, replaces the child sets wholesale. All writes happen in a single
// transaction so a failed child write cannot leave the parent row ahead of its
// children. An empty Images or Inquiries slice means "no change requested" and
// leaves the persisted children untouched.
func (r *CatalogRepository) SaveProduct(ctx context.Context, p *models.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if p.ID == "" {
		p.ID = uuid.New().String()
		const ins = `
            INSERT INTO products_services (
                id, card_id, title, description, price, category, text_align,
                display_order, is_featured, is_active
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
            RETURNING created_at, updated_at`
		if err := tx.QueryRowxContext(ctx, ins,
			p.ID, p.CardID, p.Title, p.Description, p.Price, p.Category,
			p.TextAlign, p.DisplayOrder, p.IsFeatured, p.IsActive,
		).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
	} else {
		// Scoped to the card so a product id from another card cannot be
		// overwritten; a mismatch scans zero rows.
		const upd = `
            UPDATE products_services SET
                title = $3, description = $4, price = $5, category = $6,
                text_align = $7, is_featured = $8, is_active = $9, updated_at = NOW()
            WHERE id = $1 AND card_id = $2
            RETURNING updated_at`
		if err := tx.QueryRowxContext(ctx, upd,
			p.ID, p.CardID, p.Title, p.Description, p.Price, p.Category,
			p.TextAlign, p.IsFeatured, p.IsActive,
		).Scan(&p.UpdatedAt); err != nil {
			if err == sql.ErrNoRows {
				return sql.ErrNoRows
			}
			return err
		}
	}

	if len(p.Images) > 0 {
		if err := replaceImages(ctx, tx, p.ID, p.Images); err != nil {
			return fmt.Errorf("failed to replace images: %w", err)
		}
	}
	if len(p.Inquiries) > 0 {
		if err := replaceInquiries(ctx, tx, p.ID, p.Inquiries); err != nil {
			return fmt.Errorf("failed to replace inquiries: %w", err)
		}
	}

	return tx.Commit()
}

// replaceImages deletes all image rows for a product and re-inserts the given
// sequence in order. Position in the slice becomes display_order and every
// inserted row is forced active.
func replaceImages(ctx context.Context, tx *sqlx.Tx, productID string, images []models.ProductImage) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return err
	}

	const ins = `
        INSERT INTO product_images (id, product_id, image_url, alt_text, display_order, is_active)
        VALUES ($1, $2, $3, $4, $5, true)`
	for i := range images {
		img := &images[i]
		img.ID = uuid.New().String()
		img.ProductID = productID
		img.DisplayOrder = i
		img.IsActive = true
		if _, err := tx.ExecContext(ctx, ins, img.ID, img.ProductID, img.ImageURL, img.AltText, img.DisplayOrder); err != nil {
			return err
		}
	}
	return nil
}

// replaceInquiries deletes all inquiry rows for a product and re-inserts the
// given sequence, preserving each inquiry's own type, value, label and active flag.
func replaceInquiries(ctx context.Context, tx *sqlx.Tx, productID string, inquiries []models.ProductInquiry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_inquiries WHERE product_id = $1`, productID); err != nil {
		return err
	}

	const ins = `
        INSERT INTO product_inquiries (id, product_id, inquiry_type, contact_value, button_text, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range inquiries {
		inq := &inquiries[i]
		inq.ID = uuid.New().String()
		inq.ProductID = productID
		if _, err := tx.ExecContext(ctx, ins, inq.ID, inq.ProductID, inq.Type, inq.ContactValue, inq.ButtonText, inq.IsActive); err != nil {
			return err
		}
	}
	return nil
}

// DeleteProduct deletes a product row belonging to the given card. Image and
// inquiry children are removed by the schema's ON DELETE CASCADE. A product id
// from another card affects zero rows and reports sql.ErrNoRows.
func (r *CatalogRepository) DeleteProduct(ctx context.Context, cardID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products_services WHERE id = $1 AND card_id = $2`, id, cardID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
