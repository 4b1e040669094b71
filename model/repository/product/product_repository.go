package product

import (
	"errors"
	"time"

	"gorm.io/gorm"

	entity "catalogsync.GO/model/entity"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// UpsertByShopifyID inserts or updates a product keyed by its remote id.
// Re-running an unchanged import must not create a second row; the
// uniqueness column is the sole idempotency anchor. On update the
// incoming struct receives the existing primary key.
func (r *ProductRepository) UpsertByShopifyID(p *entity.Product) error {
	var existing entity.Product
	err := r.db.Select("id").Where("shopify_product_id = ?", p.ShopifyProductID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(p).Error
	}
	if err != nil {
		return err
	}
	p.ID = existing.ID
	return r.db.Model(&entity.Product{ID: existing.ID}).Updates(map[string]interface{}{
		"title":                p.Title,
		"handle":               p.Handle,
		"description":          p.Description,
		"description_html":     p.DescriptionHTML,
		"sku_label":            p.SkuLabel,
		"vendor":               p.Vendor,
		"product_type":         p.ProductType,
		"tags":                 p.Tags,
		"status":               p.Status,
		"shopify_status":       p.ShopifyStatus,
		"shopify_published_at": p.PublishedAt,
		"metadata":             p.Metadata,
		"last_synced_at":       p.LastSyncedAt,
	}).Error
}

// UpsertVariant inserts or updates a variant keyed by shopify_variant_id.
func (r *ProductRepository) UpsertVariant(v *entity.ProductVariant) error {
	var existing entity.ProductVariant
	err := r.db.Select("id").Where("shopify_variant_id = ?", v.ShopifyVariantID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(v).Error
	}
	if err != nil {
		return err
	}
	v.ID = existing.ID
	return r.db.Model(&entity.ProductVariant{ID: existing.ID}).Updates(map[string]interface{}{
		"product_id":         v.ProductID,
		"sku":                v.SKU,
		"title":              v.Title,
		"price":              v.Price,
		"compare_at_price":   v.CompareAtPrice,
		"weight":             v.Weight,
		"weight_unit":        v.WeightUnit,
		"inventory_quantity": v.InventoryQuantity,
		"position":           v.Position,
		"option1":            v.Option1,
		"option2":            v.Option2,
		"option3":            v.Option3,
	}).Error
}

// UpsertStagedMedia inserts or updates a staged media row keyed by
// shopify_media_id.
func (r *ProductRepository) UpsertStagedMedia(m *entity.StagedMedia) error {
	var existing entity.StagedMedia
	err := r.db.Select("id").Where("shopify_media_id = ?", m.ShopifyMediaID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(m).Error
	}
	if err != nil {
		return err
	}
	m.ID = existing.ID
	return r.db.Model(&entity.StagedMedia{ID: existing.ID}).Updates(map[string]interface{}{
		"shopify_product_id": m.ShopifyProductID,
		"product_id":         m.ProductID,
		"source_url":         m.SourceURL,
		"filename":           m.Filename,
		"alt_text":           m.AltText,
		"mime_type":          m.MimeType,
		"width":              m.Width,
		"height":             m.Height,
		"position":           m.Position,
		"updated_at":         time.Now(),
	}).Error
}

// FindBySkuLabel returns the product owning a SKU label, or nil when none
// exists (a bucket without a product is legitimate).
func (r *ProductRepository) FindBySkuLabel(label string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Where("sku_label = ?", label).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID loads one product with its variants and staged media.
func (r *ProductRepository) FindByID(id uint) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Preload("StagedMedia", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns one page of products with the total count. An optional
// search term matches title, handle and sku_label.
func (r *ProductRepository) List(search string, page, pageSize int) ([]entity.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	q := r.db.Model(&entity.Product{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("title LIKE ? OR handle LIKE ? OR sku_label LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []entity.Product
	err := q.Order("title").Offset((page - 1) * pageSize).Limit(pageSize).Find(&products).Error
	return products, total, err
}

// Count returns the number of products (status-surface denominator).
func (r *ProductRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&entity.Product{}).Count(&n).Error
	return n, err
}

// StagedMediaStats returns the unassociated-media count and the most
// recent staged-media update time.
func (r *ProductRepository) StagedMediaStats() (int64, *time.Time, error) {
	var n int64
	if err := r.db.Model(&entity.StagedMedia{}).Count(&n).Error; err != nil {
		return 0, nil, err
	}
	if n == 0 {
		return 0, nil, nil
	}
	var last entity.StagedMedia
	if err := r.db.Order("updated_at DESC").First(&last).Error; err != nil {
		return n, nil, nil
	}
	t := last.UpdatedAt
	return n, &t, nil
}
