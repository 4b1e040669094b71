package shopify

import "context"

// Pager steps through the paginated products query one cursor at a time.
// Each Next call wraps exactly one network fetch; the caller loops until
// HasMore reports false. A Pager is single-use and not safe for
// concurrent use.
type Pager struct {
	client   Doer
	pageSize int
	cursor   *string
	hasMore  bool
}

// NewPager returns a pager positioned before the first page.
func NewPager(client Doer, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Pager{client: client, pageSize: pageSize, hasMore: true}
}

// HasMore reports whether another Next call would fetch a page.
func (p *Pager) HasMore() bool {
	return p.hasMore
}

// Next fetches the next page of products and advances the cursor.
// Returns an empty slice once exhausted. Any fetch error is fatal to the
// run; pagination failures are not per-item recoverable.
func (p *Pager) Next(ctx context.Context) ([]Product, error) {
	if !p.hasMore {
		return nil, nil
	}

	vars := map[string]interface{}{"first": p.pageSize}
	if p.cursor != nil {
		vars["after"] = *p.cursor
	}

	var page productsPage
	if err := p.client.Query(ctx, GetProductsQuery, vars, &page); err != nil {
		p.hasMore = false
		return nil, err
	}

	p.hasMore = page.Products.PageInfo.HasNextPage
	p.cursor = page.Products.PageInfo.EndCursor

	products := make([]Product, 0, len(page.Products.Edges))
	for _, e := range page.Products.Edges {
		products = append(products, e.Node)
	}
	return products, nil
}
