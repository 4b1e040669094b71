package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"catalogsync.GO/core/cache"
	entity "catalogsync.GO/model/entity"
	mediaRepo "catalogsync.GO/model/repository/media"
	productRepo "catalogsync.GO/model/repository/product"
	"catalogsync.GO/remote/shopify"
	syncService "catalogsync.GO/service/sync"
)

// maxErrorSample caps the per-item errors embedded in the terminal
// sync run record.
const maxErrorSample = 25

// Client is what the import needs from the remote catalog API.
type Client interface {
	shopify.Doer
	CountProducts(ctx context.Context) (int, error)
}

// Indexer re-indexes products after a completed import (search).
type Indexer interface {
	IndexAll(ctx context.Context) error
}

// ImportOptions configures a catalog import run.
type ImportOptions struct {
	PageSize      int
	ProgressEvery int
}

// ImportError records one failed product without aborting the batch.
type ImportError struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// ImportResult holds counters from a catalog import run.
type ImportResult struct {
	Total    int           `json:"total"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors"`
}

// Service imports the remote catalog into the local product model.
type Service struct {
	client   Client
	products *productRepo.ProductRepository
	media    *mediaRepo.MediaRepository
	tracker  *syncService.Tracker
	indexer  Indexer
}

func NewService(db *gorm.DB, client Client, tracker *syncService.Tracker) *Service {
	return &Service{
		client:   client,
		products: productRepo.NewProductRepository(db),
		media:    mediaRepo.NewMediaRepository(db),
		tracker:  tracker,
	}
}

// SetIndexer attaches an optional search indexer invoked after the run.
func (s *Service) SetIndexer(ix Indexer) {
	s.indexer = ix
}

// ImportAllProducts pages through the remote catalog and upserts every
// product. Page-fetch failures abort the run; individual product
// failures are recorded and skipped. The returned result reflects the
// terminal sync run.
func (s *Service) ImportAllProducts(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 1
	}

	run, err := s.tracker.Start(entity.SyncTypeShopifyImport, "product")
	if err != nil {
		return nil, err
	}

	total, err := s.client.CountProducts(ctx)
	if err != nil {
		s.tracker.Fail(run, fmt.Errorf("count products: %w", err))
		return nil, fmt.Errorf("count products: %w", err)
	}
	run.Total = total
	s.tracker.Tick(run)

	result := &ImportResult{Total: total}
	pager := shopify.NewPager(s.client, opts.PageSize)
	processed := 0

	for pager.HasMore() {
		products, err := pager.Next(ctx)
		if err != nil {
			s.tracker.Fail(run, fmt.Errorf("fetch product page: %w", err))
			return result, fmt.Errorf("fetch product page: %w", err)
		}
		for i := range products {
			p := &products[i]
			if err := s.importProduct(p); err != nil {
				result.Failed++
				run.Failed++
				msg := err.Error()
				run.LastError = &msg
				result.Errors = append(result.Errors, ImportError{ProductID: p.ID, Message: msg})
				log.Printf("catalog: import %q failed: %v", p.Title, err)
			} else {
				result.Imported++
				run.Imported++
			}
			processed++
			if processed%opts.ProgressEvery == 0 {
				s.tracker.Tick(run)
			}
		}
	}

	sample := result.Errors
	if len(sample) > maxErrorSample {
		sample = sample[:maxErrorSample]
	}
	s.tracker.Finish(run, map[string]interface{}{"errors": sample})

	cache.GetInstance().DeleteByTag(cache.TagProducts)

	if s.indexer != nil {
		if err := s.indexer.IndexAll(ctx); err != nil {
			log.Printf("catalog: search indexing failed: %v", err)
		}
	}

	return result, nil
}

// importProduct maps one remote product to local rows. Product and
// staged-media failures fail the item; variant and bucket failures are
// logged and swallowed.
func (s *Service) importProduct(p *shopify.Product) error {
	shopifyID, err := shopify.ExtractShopifyID(p.ID)
	if err != nil {
		return err
	}

	skus := make([]string, 0, len(p.Variants.Edges))
	for _, e := range p.Variants.Edges {
		if e.Node.SKU != nil {
			skus = append(skus, *e.Node.SKU)
		} else {
			skus = append(skus, "")
		}
	}
	skuLabel, hasLabel := DeriveSkuLabel(skus)

	metadata, err := json.Marshal(FlattenMetafields(metafieldNodes(p)))
	if err != nil {
		return fmt.Errorf("product %d: encode metadata: %w", shopifyID, err)
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("product %d: encode tags: %w", shopifyID, err)
	}

	product := entity.Product{
		ShopifyProductID: shopifyID,
		Title:            p.Title,
		Handle:           p.Handle,
		Status:           "active",
		ShopifyStatus:    p.Status,
		Tags:             datatypes.JSON(tags),
		Metadata:         datatypes.JSON(metadata),
		LastSyncedAt:     time.Now(),
	}
	if p.DescriptionHTML != "" {
		html := p.DescriptionHTML
		product.DescriptionHTML = &html
		plain := stripHTML(html)
		if plain != "" {
			product.Description = &plain
		}
	}
	if hasLabel {
		product.SkuLabel = &skuLabel
	}
	if p.Vendor != "" {
		product.Vendor = &p.Vendor
	}
	if p.ProductType != "" {
		product.ProductType = &p.ProductType
	}
	if p.PublishedAt != nil {
		if t, err := time.Parse(time.RFC3339, *p.PublishedAt); err == nil {
			product.PublishedAt = &t
		}
	}

	if err := s.products.UpsertByShopifyID(&product); err != nil {
		return fmt.Errorf("product %d: upsert: %w", shopifyID, err)
	}

	if err := s.upsertStagedMedia(p, product.ID, shopifyID); err != nil {
		return err
	}

	s.upsertVariants(p, product.ID, shopifyID)

	if hasLabel {
		bucket := entity.MediaBucket{
			ProductID:   &product.ID,
			SkuLabel:    skuLabel,
			StoragePath: fmt.Sprintf("products/%s/", skuLabel),
			Status:      "active",
		}
		if err := s.media.EnsureBucketForProduct(&bucket); err != nil {
			log.Printf("catalog: bucket for product %d (%s): %v", shopifyID, skuLabel, err)
		}
	}

	return nil
}

// upsertStagedMedia stages every catalog image, position by source order.
func (s *Service) upsertStagedMedia(p *shopify.Product, productID uint, shopifyID uint64) error {
	for idx, e := range p.Media.Edges {
		node := e.Node
		if node.Image == nil || node.Image.URL == "" {
			continue
		}
		filename := extractFilename(node.Image.URL)
		staged := entity.StagedMedia{
			ShopifyMediaID:   node.ID,
			ShopifyProductID: shopifyID,
			ProductID:        &productID,
			SourceURL:        node.Image.URL,
			Filename:         filename,
			AltText:          node.Alt,
			Position:         idx + 1,
		}
		if mime := guessMime(filename); mime != "" {
			staged.MimeType = &mime
		}
		if node.Image.Width > 0 {
			w := node.Image.Width
			staged.Width = &w
		}
		if node.Image.Height > 0 {
			h := node.Image.Height
			staged.Height = &h
		}
		if err := s.products.UpsertStagedMedia(&staged); err != nil {
			return fmt.Errorf("product %d: staged media %s: %w", shopifyID, node.ID, err)
		}
	}
	return nil
}

// upsertVariants maps each remote variant; a bad variant never fails
// the owning product.
func (s *Service) upsertVariants(p *shopify.Product, productID uint, shopifyID uint64) {
	for _, e := range p.Variants.Edges {
		v := e.Node
		variantID, err := shopify.ExtractShopifyID(v.ID)
		if err != nil {
			log.Printf("catalog: product %d: variant %q: %v", shopifyID, v.ID, err)
			continue
		}
		variant := entity.ProductVariant{
			ProductID:         productID,
			ShopifyVariantID:  variantID,
			SKU:               v.SKU,
			Title:             v.Title,
			Price:             parsePrice(v.Price),
			InventoryQuantity: v.InventoryQuantity,
			Position:          v.Position,
		}
		if v.CompareAtPrice != nil {
			compareAt := parsePrice(*v.CompareAtPrice)
			variant.CompareAtPrice = &compareAt
		}
		if v.InventoryItem != nil && v.InventoryItem.Measurement != nil && v.InventoryItem.Measurement.Weight != nil {
			w := v.InventoryItem.Measurement.Weight
			variant.Weight = &w.Value
			unit := shopify.ConvertWeightUnit(w.Unit)
			variant.WeightUnit = &unit
		}
		for i, opt := range v.SelectedOptions {
			val := opt.Value
			switch i {
			case 0:
				variant.Option1 = &val
			case 1:
				variant.Option2 = &val
			case 2:
				variant.Option3 = &val
			}
		}
		if err := s.products.UpsertVariant(&variant); err != nil {
			log.Printf("catalog: product %d: variant %d: %v", shopifyID, variantID, err)
		}
	}
}

func metafieldNodes(p *shopify.Product) []shopify.Metafield {
	out := make([]shopify.Metafield, 0, len(p.Metafields.Edges))
	for _, e := range p.Metafields.Edges {
		out = append(out, e.Node)
	}
	return out
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

func parsePrice(s string) float64 {
	var f float64
	fmt.Sscanf(s, "%f", &f)
	return f
}

// extractFilename takes the last path segment of a source URL.
func extractFilename(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		parts := strings.Split(u.Path, "/")
		if last := parts[len(parts)-1]; last != "" {
			return last
		}
	}
	parts := strings.Split(rawURL, "/")
	if last := parts[len(parts)-1]; last != "" {
		return last
	}
	return rawURL
}

func guessMime(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".avif"):
		return "image/avif"
	default:
		return ""
	}
}
