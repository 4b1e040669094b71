package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/elastic/go-elasticsearch/v8"
	"gorm.io/gorm"

	entity "catalogsync.GO/model/entity"
)

// Service indexes products into Elasticsearch and answers search
// queries. Optional: when ELASTICSEARCH_HOST is unset the rest of the
// app falls back to SQL LIKE search.
type Service struct {
	client *elasticsearch.Client
	index  string
	db     *gorm.DB
}

// NewServiceFromEnv returns nil when Elasticsearch is not configured.
func NewServiceFromEnv(db *gorm.DB) *Service {
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		return nil
	}
	prefix := os.Getenv("ELASTICSEARCH_INDEX_PREFIX")
	if prefix == "" {
		prefix = "catalogsync"
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{host}})
	if err != nil {
		return nil
	}
	return &Service{client: client, index: prefix + "_products", db: db}
}

type productDoc struct {
	ID       uint     `json:"id"`
	Title    string   `json:"title"`
	Handle   string   `json:"handle"`
	SkuLabel *string  `json:"sku_label"`
	Vendor   *string  `json:"vendor"`
	Tags     []string `json:"tags"`
}

// IndexAll bulk-indexes every product, 500 docs per request.
func (s *Service) IndexAll(ctx context.Context) error {
	var products []entity.Product
	if err := s.db.Find(&products).Error; err != nil {
		return fmt.Errorf("search: load products: %w", err)
	}

	const batch = 500
	for start := 0; start < len(products); start += batch {
		end := start + batch
		if end > len(products) {
			end = len(products)
		}
		var buf bytes.Buffer
		for _, p := range products[start:end] {
			doc := productDoc{
				ID:       p.ID,
				Title:    p.Title,
				Handle:   p.Handle,
				SkuLabel: p.SkuLabel,
				Vendor:   p.Vendor,
			}
			if len(p.Tags) > 0 {
				_ = json.Unmarshal(p.Tags, &doc.Tags)
			}
			meta, _ := json.Marshal(map[string]interface{}{
				"index": map[string]interface{}{"_id": fmt.Sprintf("%d", p.ID)},
			})
			body, _ := json.Marshal(doc)
			buf.Write(meta)
			buf.WriteByte('\n')
			buf.Write(body)
			buf.WriteByte('\n')
		}

		res, err := s.client.Bulk(bytes.NewReader(buf.Bytes()),
			s.client.Bulk.WithContext(ctx),
			s.client.Bulk.WithIndex(s.index),
		)
		if err != nil {
			return fmt.Errorf("search: bulk index: %w", err)
		}
		if res.IsError() {
			res.Body.Close()
			return fmt.Errorf("search: bulk index error: %s", res.String())
		}
		res.Body.Close()
	}
	return nil
}

// Search returns matching product ids and the total hit count.
func (s *Service) Search(ctx context.Context, query string, page, pageSize int) ([]uint, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	body := map[string]interface{}{
		"from":    (page - 1) * pageSize,
		"size":    pageSize,
		"_source": []string{"id"},
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "sku_label^2", "handle", "vendor", "tags"},
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("search: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, 0, fmt.Errorf("search: decode response: %w", err)
	}

	ids := make([]uint, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, esResp.Hits.Total.Value, nil
}
