package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Doer issues one GraphQL query against the catalog API. The pager and
// import service depend on this interface so tests can substitute a
// fake transport.
type Doer interface {
	Query(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error
}

// Client talks to the Shopify Admin GraphQL API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewClientFromEnv builds a client from SHOPIFY_SHOP_DOMAIN,
// SHOPIFY_ACCESS_TOKEN and optional SHOPIFY_API_VERSION.
func NewClientFromEnv() (*Client, error) {
	shop := os.Getenv("SHOPIFY_SHOP_DOMAIN")
	token := os.Getenv("SHOPIFY_ACCESS_TOKEN")
	if shop == "" || token == "" {
		return nil, fmt.Errorf("shopify: SHOPIFY_SHOP_DOMAIN and SHOPIFY_ACCESS_TOKEN are required")
	}
	version := os.Getenv("SHOPIFY_API_VERSION")
	if version == "" {
		version = "2024-10"
	}
	return &Client{
		endpoint: fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, version),
		token:    token,
		http:     &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// Query posts one GraphQL document and decodes the data payload into out.
// Transport errors and GraphQL-level errors both surface as errors: a
// failed page fetch aborts the whole run.
func (c *Client) Query(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("shopify: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shopify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("shopify: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("shopify: status %d: %s", resp.StatusCode, string(b))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("shopify: decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("shopify: graphql error: %s", envelope.Errors[0].Message)
	}
	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("shopify: decode data: %w", err)
		}
	}
	return nil
}

// CountProducts returns the remote product count. Display only; the
// pager never uses it for termination.
func (c *Client) CountProducts(ctx context.Context) (int, error) {
	var out productsCount
	if err := c.Query(ctx, GetProductsCountQuery, nil, &out); err != nil {
		return 0, err
	}
	return out.ProductsCount.Count, nil
}
