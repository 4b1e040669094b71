package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Product is one catalog product synced from the remote shop.
// ShopifyProductID is the idempotency anchor: re-importing the same
// remote product updates this row instead of creating a new one.
type Product struct {
	ID               uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ShopifyProductID uint64         `gorm:"column:shopify_product_id;not null;uniqueIndex" json:"shopify_product_id"`
	Title            string         `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Handle           string         `gorm:"column:handle;type:varchar(255);not null;uniqueIndex" json:"handle"`
	Description      *string        `gorm:"column:description;type:text" json:"description,omitempty"`
	DescriptionHTML  *string        `gorm:"column:description_html;type:text" json:"description_html,omitempty"`
	SkuLabel         *string        `gorm:"column:sku_label;type:varchar(128);index" json:"sku_label,omitempty"`
	Vendor           *string        `gorm:"column:vendor;type:varchar(255)" json:"vendor,omitempty"`
	ProductType      *string        `gorm:"column:product_type;type:varchar(255)" json:"product_type,omitempty"`
	Tags             datatypes.JSON `gorm:"column:tags" json:"tags,omitempty"`
	Status           string         `gorm:"column:status;type:varchar(32);not null;default:active" json:"status"`
	ShopifyStatus    string         `gorm:"column:shopify_status;type:varchar(32);not null" json:"shopify_status"`
	PublishedAt      *time.Time     `gorm:"column:shopify_published_at" json:"shopify_published_at,omitempty"`
	Metadata         datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	LastSyncedAt     time.Time      `gorm:"column:last_synced_at" json:"last_synced_at"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Variants    []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	StagedMedia []StagedMedia    `gorm:"foreignKey:ProductID" json:"staged_media,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductVariant belongs to exactly one Product; upserted keyed by
// shopify_variant_id.
type ProductVariant struct {
	ID                uint     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID         uint     `gorm:"column:product_id;not null;index" json:"product_id"`
	ShopifyVariantID  uint64   `gorm:"column:shopify_variant_id;not null;uniqueIndex" json:"shopify_variant_id"`
	SKU               *string  `gorm:"column:sku;type:varchar(128);index" json:"sku,omitempty"`
	Title             string   `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Price             float64  `gorm:"column:price;type:decimal(12,2);not null;default:0" json:"price"`
	CompareAtPrice    *float64 `gorm:"column:compare_at_price;type:decimal(12,2)" json:"compare_at_price,omitempty"`
	Weight            *float64 `gorm:"column:weight;type:decimal(12,4)" json:"weight,omitempty"`
	WeightUnit        *string  `gorm:"column:weight_unit;type:varchar(8)" json:"weight_unit,omitempty"`
	InventoryQuantity *int     `gorm:"column:inventory_quantity" json:"inventory_quantity,omitempty"`
	Position          int      `gorm:"column:position;not null;default:1" json:"position"`
	Option1           *string  `gorm:"column:option1;type:varchar(255)" json:"option1,omitempty"`
	Option2           *string  `gorm:"column:option2;type:varchar(255)" json:"option2,omitempty"`
	Option3           *string  `gorm:"column:option3;type:varchar(255)" json:"option3,omitempty"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
