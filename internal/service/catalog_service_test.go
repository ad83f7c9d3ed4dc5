package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
)

// fakeCatalogStore is an in-memory CatalogStore mirroring the repository
// contract: atomic save, wholesale child replace when a sequence is provided,
// forced-active images with positional display order.
type fakeCatalogStore struct {
	products  map[string]models.Product
	images    map[string][]models.ProductImage
	inquiries map[string][]models.ProductInquiry
	nextID    int

	failSave      error
	failListImgs  error
	saveCallCount int
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		products:  make(map[string]models.Product),
		images:    make(map[string][]models.ProductImage),
		inquiries: make(map[string][]models.ProductInquiry),
	}
}

func (f *fakeCatalogStore) ListProducts(_ context.Context, cardID string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.CardID == cardID {
			p.Images = nil
			p.Inquiries = nil
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (f *fakeCatalogStore) CountProducts(_ context.Context, cardID string) (int, error) {
	n := 0
	for _, p := range f.products {
		if p.CardID == cardID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCatalogStore) ListImages(_ context.Context, productID string) ([]models.ProductImage, error) {
	if f.failListImgs != nil {
		return nil, f.failListImgs
	}
	return f.images[productID], nil
}

func (f *fakeCatalogStore) ListInquiries(_ context.Context, productID string) ([]models.ProductInquiry, error) {
	return f.inquiries[productID], nil
}

func (f *fakeCatalogStore) SaveProduct(_ context.Context, p *models.Product) error {
	f.saveCallCount++
	if f.failSave != nil {
		return f.failSave
	}

	if p.ID == "" {
		f.nextID++
		p.ID = fmt.Sprintf("prod-%d", f.nextID)
	} else if existing, ok := f.products[p.ID]; !ok || existing.CardID != p.CardID {
		return sql.ErrNoRows
	} else {
		p.DisplayOrder = existing.DisplayOrder
	}

	stored := *p
	stored.Images = nil
	stored.Inquiries = nil
	f.products[p.ID] = stored

	if len(p.Images) > 0 {
		imgs := make([]models.ProductImage, len(p.Images))
		for i, img := range p.Images {
			img.ProductID = p.ID
			img.DisplayOrder = i
			img.IsActive = true
			imgs[i] = img
		}
		f.images[p.ID] = imgs
	}
	if len(p.Inquiries) > 0 {
		inqs := make([]models.ProductInquiry, len(p.Inquiries))
		for i, inq := range p.Inquiries {
			inq.ProductID = p.ID
			inqs[i] = inq
		}
		f.inquiries[p.ID] = inqs
	}
	return nil
}

func (f *fakeCatalogStore) DeleteProduct(_ context.Context, cardID, id string) error {
	if p, ok := f.products[id]; !ok || p.CardID != cardID {
		return sql.ErrNoRows
	}
	delete(f.products, id)
	delete(f.images, id)
	delete(f.inquiries, id)
	return nil
}

// fakeCache counts cache traffic so tests can assert hit and invalidation paths.
type fakeCache struct {
	data        map[string][]models.Product
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]models.Product)}
}

func (c *fakeCache) Get(_ context.Context, cardID string) ([]models.Product, error) {
	return c.data[cardID], nil
}

func (c *fakeCache) Set(_ context.Context, cardID string, catalog []models.Product) error {
	c.data[cardID] = catalog
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, cardID string) error {
	c.invalidated++
	delete(c.data, cardID)
	return nil
}

// recordingListener captures every catalog fan-out.
type recordingListener struct {
	cardIDs  []string
	catalogs [][]models.Product
}

func (l *recordingListener) CatalogChanged(cardID string, catalog []models.Product) {
	l.cardIDs = append(l.cardIDs, cardID)
	l.catalogs = append(l.catalogs, catalog)
}

const testCardID = "card-1"

func seedProduct(store *fakeCatalogStore, id string, order int) {
	store.products[id] = models.Product{
		ID: id, CardID: testCardID, Title: "Title " + id, Description: "desc",
		TextAlign: models.AlignLeft, DisplayOrder: order, IsActive: true,
	}
}

func TestLoadCatalogOrderedWithChildren(t *testing.T) {
	store := newFakeCatalogStore()
	seedProduct(store, "b", 1)
	seedProduct(store, "a", 0)
	store.images["a"] = []models.ProductImage{{ID: "img-1", ProductID: "a", ImageURL: "https://cdn/x.png", IsActive: true}}
	store.inquiries["b"] = []models.ProductInquiry{{ID: "inq-1", ProductID: "b", Type: models.InquiryEmail, ContactValue: "x@y.z"}}

	svc := NewCatalogService(store, nil)
	catalog, err := svc.LoadCatalog(context.Background(), testCardID)
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	assert.Equal(t, "a", catalog[0].ID)
	assert.Equal(t, "b", catalog[1].ID)

	require.Len(t, catalog[0].Images, 1)
	assert.Equal(t, "https://cdn/x.png", catalog[0].Images[0].ImageURL)
	require.Len(t, catalog[1].Inquiries, 1)

	// Missing children come back as empty slices, never nil.
	assert.NotNil(t, catalog[0].Inquiries)
	assert.NotNil(t, catalog[1].Images)
	assert.Empty(t, catalog[1].Images)
}

func TestLoadCatalogEmptyCard(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogStore(), nil)
	catalog, err := svc.LoadCatalog(context.Background(), testCardID)
	require.NoError(t, err)
	assert.NotNil(t, catalog)
	assert.Empty(t, catalog)
}

func TestLoadCatalogFailClosed(t *testing.T) {
	store := newFakeCatalogStore()
	seedProduct(store, "a", 0)
	store.failListImgs = errors.New("connection reset")

	svc := NewCatalogService(store, nil)
	catalog, err := svc.LoadCatalog(context.Background(), testCardID)
	require.Error(t, err)
	assert.Nil(t, catalog)
}

func TestLoadCatalogCacheHit(t *testing.T) {
	store := newFakeCatalogStore()
	cache := newFakeCache()
	cache.data[testCardID] = []models.Product{{ID: "cached", CardID: testCardID}}

	svc := NewCatalogService(store, cache)
	catalog, err := svc.LoadCatalog(context.Background(), testCardID)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "cached", catalog[0].ID)
}

func TestSaveProductCreate(t *testing.T) {
	store := newFakeCatalogStore()
	seedProduct(store, "existing", 0)
	listener := &recordingListener{}

	svc := NewCatalogService(store, nil, listener)
	catalog, err := svc.SaveProduct(context.Background(), testCardID, "", &ProductDraft{
		Title:       "New product",
		Description: "something **bold**",
		Images: []models.ProductImage{
			{ImageURL: "https://cdn/1.png", IsActive: false},
			{ImageURL: "https://cdn/2.png"},
		},
	})
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	created := catalog[1]
	assert.Equal(t, "New product", created.Title)
	// New products append at the end.
	assert.Equal(t, 1, created.DisplayOrder)
	// Defaults: left alignment, active.
	assert.Equal(t, models.AlignLeft, created.TextAlign)
	assert.True(t, created.IsActive)

	// Saved images are forced active with positional display order.
	require.Len(t, created.Images, 2)
	assert.True(t, created.Images[0].IsActive)
	assert.Equal(t, 0, created.Images[0].DisplayOrder)
	assert.Equal(t, 1, created.Images[1].DisplayOrder)

	// Listener got the full refreshed catalog, not a diff.
	require.Len(t, listener.catalogs, 1)
	assert.Equal(t, testCardID, listener.cardIDs[0])
	assert.Len(t, listener.catalogs[0], 2)
}

func TestSaveProductValidation(t *testing.T) {
	store := newFakeCatalogStore()
	svc := NewCatalogService(store, nil)

	tests := []struct {
		name  string
		draft ProductDraft
		err   error
	}{
		{"missing title", ProductDraft{Description: "d"}, ErrTitleRequired},
		{"missing description", ProductDraft{Title: "t"}, ErrDescriptionRequired},
		{"bad alignment", ProductDraft{Title: "t", Description: "d", TextAlign: "justify"}, ErrInvalidAlignment},
		{"bad inquiry type", ProductDraft{
			Title: "t", Description: "d",
			Inquiries: []models.ProductInquiry{{Type: "fax", ContactValue: "123"}},
		}, ErrInvalidInquiryType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveProduct(context.Background(), testCardID, "", &tt.draft)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	// Invalid drafts never reach the store.
	assert.Zero(t, store.saveCallCount)
}

func TestSaveProductUpdateNotFound(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogStore(), nil)
	_, err := svc.SaveProduct(context.Background(), testCardID, "missing", &ProductDraft{
		Title: "t", Description: "d",
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSaveProductEmptyChildrenMeansNoChange(t *testing.T) {
	store := newFakeCatalogStore()
	seedProduct(store, "a", 0)
	store.images["a"] = []models.ProductImage{{ID: "img-1", ProductID: "a", ImageURL: "https://cdn/x.png", IsActive: true}}
	store.inquiries["a"] = []models.ProductInquiry{{ID: "inq-1", ProductID: "a", Type: models.InquiryPhone, ContactValue: "+1"}}

	svc := NewCatalogService(store, nil)
	catalog, err := svc.SaveProduct(context.Background(), testCardID, "a", &ProductDraft{
		Title:       "Renamed",
		Description: "still here",
	})
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	// Title changed, children untouched.
	assert.Equal(t, "Renamed", catalog[0].Title)
	require.Len(t, catalog[0].Images, 1)
	assert.Equal(t, "img-1", catalog[0].Images[0].ID)
	require.Len(t, catalog[0].Inquiries, 1)
	assert.Equal(t, "inq-1", catalog[0].Inquiries[0].ID)
}

func TestSaveProductFailureLeavesStateIntact(t *testing.T) {
	store := newFakeCatalogStore()
	seedProduct(store, "a", 0)
	store.images["a"] = []models.ProductImage{{ID: "img-1", ProductID: "a", ImageURL: "https://cdn/x.png", IsActive: true}}
	store.failSave = errors.New("serialization failure")
	listener := &recordingListener{}

	svc := NewCatalogService(store, nil, listener)
	_, err := svc.SaveProduct(context.Background(), testCardID, "a", &ProductDraft{
		Title:       "Won't stick",
		Description: "d",
		Images:      []models.ProductImage{{ImageURL: "https://cdn/new.png"}},
	})
	require.Error(t, err)

	// Nothing changed and nobody was notified.
	assert.Equal(t, "Title a", store.products["a"].Title)
	assert.Equal(t, "img-1", store.images["a"][0].ID)
	assert.Empty(t, listener.catalogs)
}

func TestDeleteProduct(t *testing.T) {
	store := newFakeCatalogStore()
	seedProduct(store, "a", 0)
	seedProduct(store, "b", 1)
	cache := newFakeCache()
	listener := &recordingListener{}

	svc := NewCatalogService(store, cache, listener)
	catalog, err := svc.DeleteProduct(context.Background(), testCardID, "a")
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "b", catalog[0].ID)

	assert.Equal(t, 1, cache.invalidated)
	require.Len(t, listener.catalogs, 1)
	assert.Len(t, listener.catalogs[0], 1)
}

func TestDeleteProductNotFound(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogStore(), nil)
	_, err := svc.DeleteProduct(context.Background(), testCardID, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSaveProductImagesReplacedWholesale(t *testing.T) {
	store := newFakeCatalogStore()
	seedProduct(store, "a", 0)
	store.images["a"] = []models.ProductImage{
		{ID: "img-a", ProductID: "a", ImageURL: "https://cdn/a.png", DisplayOrder: 0, IsActive: true},
		{ID: "img-b", ProductID: "a", ImageURL: "https://cdn/b.png", DisplayOrder: 1, IsActive: true},
	}

	svc := NewCatalogService(store, nil)
	catalog, err := svc.SaveProduct(context.Background(), testCardID, "a", &ProductDraft{
		Title:       "Title a",
		Description: "d",
		Images:      []models.ProductImage{{ImageURL: "https://cdn/b.png"}},
	})
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	// Wholesale replace: the old set is gone, the new sequence re-numbers from 0.
	require.Len(t, catalog[0].Images, 1)
	assert.Equal(t, "https://cdn/b.png", catalog[0].Images[0].ImageURL)
	assert.Equal(t, 0, catalog[0].Images[0].DisplayOrder)
	assert.True(t, catalog[0].Images[0].IsActive)
}

func seedForeignProduct(store *fakeCatalogStore, id string) {
	store.products[id] = models.Product{
		ID: id, CardID: "card-2", Title: "Foreign " + id, Description: "desc",
		TextAlign: models.AlignLeft, IsActive: true,
	}
}

func TestSaveProductOtherCardRejected(t *testing.T) {
	store := newFakeCatalogStore()
	seedForeignProduct(store, "victim")

	svc := NewCatalogService(store, nil)
	_, err := svc.SaveProduct(context.Background(), testCardID, "victim", &ProductDraft{
		Title:       "hijacked",
		Description: "d",
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, "Foreign victim", store.products["victim"].Title)
}

func TestDeleteProductOtherCardRejected(t *testing.T) {
	store := newFakeCatalogStore()
	seedForeignProduct(store, "victim")

	svc := NewCatalogService(store, nil)
	_, err := svc.DeleteProduct(context.Background(), testCardID, "victim")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Contains(t, store.products, "victim")
}

func TestSaveProductInvalidatesCache(t *testing.T) {
	store := newFakeCatalogStore()
	cache := newFakeCache()
	cache.data[testCardID] = []models.Product{{ID: "stale"}}

	svc := NewCatalogService(store, cache)
	catalog, err := svc.SaveProduct(context.Background(), testCardID, "", &ProductDraft{
		Title: "fresh", Description: "d",
	})
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "fresh", catalog[0].Title)
	assert.Equal(t, 1, cache.invalidated)
}
