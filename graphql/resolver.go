package graphql

import (
	"context"
	"strconv"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"gorm.io/gorm"

	entity "catalogsync.GO/model/entity"
	productRepo "catalogsync.GO/model/repository/product"
	syncRepo "catalogsync.GO/model/repository/sync"
	syncService "catalogsync.GO/service/sync"
)

// RootResolver is the root for the read-only query surface. Writes go
// through the REST trigger endpoints, never through GraphQL.
type RootResolver struct {
	DB *gorm.DB
}

// --- products ---

type ProductsArgs struct {
	Search   *string
	Page     *int32
	PageSize *int32
}

func (r *RootResolver) Products(ctx context.Context, args ProductsArgs) (*ProductPageResolver, error) {
	search := ""
	if args.Search != nil {
		search = *args.Search
	}
	page, pageSize := 1, 20
	if args.Page != nil && *args.Page > 0 {
		page = int(*args.Page)
	}
	if args.PageSize != nil && *args.PageSize > 0 && *args.PageSize <= 100 {
		pageSize = int(*args.PageSize)
	}

	items, total, err := productRepo.NewProductRepository(r.DB).List(search, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &ProductPageResolver{db: r.DB, items: items, total: total, page: page, pageSize: pageSize}, nil
}

type ProductArgs struct {
	ID graphql.ID
}

func (r *RootResolver) Product(ctx context.Context, args ProductArgs) (*ProductResolver, error) {
	id, err := strconv.ParseUint(string(args.ID), 10, 32)
	if err != nil {
		return nil, nil
	}
	p, err := productRepo.NewProductRepository(r.DB).FindByID(uint(id))
	if err != nil || p == nil {
		return nil, err
	}
	return &ProductResolver{db: r.DB, p: *p}, nil
}

// --- syncStatus ---

type SyncStatusArgs struct {
	Type           *string
	ErrorsPage     *int32
	ErrorsPageSize *int32
}

func (r *RootResolver) SyncStatus(ctx context.Context, args SyncStatusArgs) (*SyncStatusResolver, error) {
	syncType := entity.SyncTypeShopifyImport
	if args.Type != nil && *args.Type != "" {
		syncType = *args.Type
	}
	page, pageSize := 1, 10
	if args.ErrorsPage != nil {
		page = int(*args.ErrorsPage)
	}
	if args.ErrorsPageSize != nil {
		pageSize = int(*args.ErrorsPageSize)
	}

	svc := syncService.NewStatusService(
		syncRepo.NewSyncRepository(r.DB),
		productRepo.NewProductRepository(r.DB),
	)
	payload, err := svc.Status(syncType, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &SyncStatusResolver{payload: payload}, nil
}

// --- field resolvers ---

type ProductPageResolver struct {
	db       *gorm.DB
	items    []entity.Product
	total    int64
	page     int
	pageSize int
}

func (r *ProductPageResolver) Items() []*ProductResolver {
	out := make([]*ProductResolver, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, &ProductResolver{db: r.db, p: p})
	}
	return out
}

func (r *ProductPageResolver) Total() int32    { return int32(r.total) }
func (r *ProductPageResolver) Page() int32     { return int32(r.page) }
func (r *ProductPageResolver) PageSize() int32 { return int32(r.pageSize) }

type ProductResolver struct {
	db *gorm.DB
	p  entity.Product
}

func (r *ProductResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(r.p.ID), 10))
}
func (r *ProductResolver) ShopifyProductID() string {
	return strconv.FormatUint(r.p.ShopifyProductID, 10)
}
func (r *ProductResolver) Title() string         { return r.p.Title }
func (r *ProductResolver) Handle() string        { return r.p.Handle }
func (r *ProductResolver) SkuLabel() *string     { return r.p.SkuLabel }
func (r *ProductResolver) Vendor() *string       { return r.p.Vendor }
func (r *ProductResolver) ProductType() *string  { return r.p.ProductType }
func (r *ProductResolver) Status() string        { return r.p.Status }
func (r *ProductResolver) ShopifyStatus() string { return r.p.ShopifyStatus }
func (r *ProductResolver) LastSyncedAt() string {
	return r.p.LastSyncedAt.Format(time.RFC3339)
}

// Variants loads lazily so list queries without the field stay cheap.
func (r *ProductResolver) Variants() ([]*VariantResolver, error) {
	variants := r.p.Variants
	if variants == nil {
		if err := r.db.Where("product_id = ?", r.p.ID).Order("position").Find(&variants).Error; err != nil {
			return nil, err
		}
	}
	out := make([]*VariantResolver, 0, len(variants))
	for _, v := range variants {
		out = append(out, &VariantResolver{v: v})
	}
	return out, nil
}

func (r *ProductResolver) StagedMedia() ([]*StagedMediaResolver, error) {
	media := r.p.StagedMedia
	if media == nil {
		if err := r.db.Where("product_id = ?", r.p.ID).Order("position").Find(&media).Error; err != nil {
			return nil, err
		}
	}
	out := make([]*StagedMediaResolver, 0, len(media))
	for _, m := range media {
		out = append(out, &StagedMediaResolver{m: m})
	}
	return out, nil
}

type VariantResolver struct {
	v entity.ProductVariant
}

func (r *VariantResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(r.v.ID), 10))
}
func (r *VariantResolver) ShopifyVariantID() string {
	return strconv.FormatUint(r.v.ShopifyVariantID, 10)
}
func (r *VariantResolver) Sku() *string             { return r.v.SKU }
func (r *VariantResolver) Title() string            { return r.v.Title }
func (r *VariantResolver) Price() float64           { return r.v.Price }
func (r *VariantResolver) CompareAtPrice() *float64 { return r.v.CompareAtPrice }
func (r *VariantResolver) InventoryQuantity() *int32 {
	if r.v.InventoryQuantity == nil {
		return nil
	}
	n := int32(*r.v.InventoryQuantity)
	return &n
}
func (r *VariantResolver) Position() int32 { return int32(r.v.Position) }

type StagedMediaResolver struct {
	m entity.StagedMedia
}

func (r *StagedMediaResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(r.m.ID), 10))
}
func (r *StagedMediaResolver) SourceURL() string { return r.m.SourceURL }
func (r *StagedMediaResolver) Filename() string  { return r.m.Filename }
func (r *StagedMediaResolver) AltText() *string  { return r.m.AltText }
func (r *StagedMediaResolver) Position() int32   { return int32(r.m.Position) }

type SyncStatusResolver struct {
	payload *syncService.StatusPayload
}

func (r *SyncStatusResolver) Running() *SyncRunResolver {
	if r.payload.Running == nil {
		return nil
	}
	return &SyncRunResolver{info: r.payload.Running}
}

func (r *SyncStatusResolver) LastCompleted() *SyncRunResolver {
	if r.payload.LastCompleted == nil {
		return nil
	}
	return &SyncRunResolver{info: r.payload.LastCompleted}
}

func (r *SyncStatusResolver) ProductCount() int32 {
	return int32(r.payload.ProductCount)
}

func (r *SyncStatusResolver) UnassociatedMediaCount() int32 {
	return int32(r.payload.UnassociatedMedia.Count)
}

func (r *SyncStatusResolver) RecentErrors() []*SyncErrorResolver {
	out := make([]*SyncErrorResolver, 0, len(r.payload.RecentErrors))
	for _, e := range r.payload.RecentErrors {
		out = append(out, &SyncErrorResolver{e: e})
	}
	return out
}

type SyncRunResolver struct {
	info *syncService.RunInfo
}

func (r *SyncRunResolver) Status() string     { return r.info.Status }
func (r *SyncRunResolver) StartedAt() string  { return r.info.StartedAt.Format(time.RFC3339) }
func (r *SyncRunResolver) UpdatedAt() string  { return r.info.UpdatedAt.Format(time.RFC3339) }
func (r *SyncRunResolver) Total() int32       { return int32(r.info.Total) }
func (r *SyncRunResolver) Imported() int32    { return int32(r.info.Imported) }
func (r *SyncRunResolver) Skipped() int32     { return int32(r.info.Skipped) }
func (r *SyncRunResolver) Failed() int32      { return int32(r.info.Failed) }
func (r *SyncRunResolver) LastError() *string { return r.info.LastError }

type SyncErrorResolver struct {
	e syncService.RecentError
}

func (r *SyncErrorResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(r.e.ID), 10))
}
func (r *SyncErrorResolver) CreatedAt() string  { return r.e.CreatedAt.Format(time.RFC3339) }
func (r *SyncErrorResolver) Status() string     { return r.e.Status }
func (r *SyncErrorResolver) LastError() *string { return r.e.LastError }
