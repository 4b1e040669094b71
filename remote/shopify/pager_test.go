package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

// fakeDoer returns canned pages keyed by the "after" cursor.
type fakeDoer struct {
	pages map[string]string
	calls int
}

func (f *fakeDoer) Query(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	f.calls++
	cursor := ""
	if v, ok := vars["after"].(string); ok {
		cursor = v
	}
	raw, ok := f.pages[cursor]
	if !ok {
		return fmt.Errorf("unexpected cursor %q", cursor)
	}
	return json.Unmarshal([]byte(raw), out)
}

func TestPager_TwoPages(t *testing.T) {
	doer := &fakeDoer{pages: map[string]string{
		"": `{"products":{"edges":[{"node":{"id":"gid://shopify/Product/1","title":"One"}},{"node":{"id":"gid://shopify/Product/2","title":"Two"}}],"pageInfo":{"hasNextPage":true,"endCursor":"c1"}}}`,
		"c1": `{"products":{"edges":[{"node":{"id":"gid://shopify/Product/3","title":"Three"}}],"pageInfo":{"hasNextPage":false,"endCursor":null}}}`,
	}}

	p := NewPager(doer, 2)
	var titles []string
	for p.HasMore() {
		products, err := p.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		for _, prod := range products {
			titles = append(titles, prod.Title)
		}
	}

	if len(titles) != 3 {
		t.Fatalf("got %d products, want 3", len(titles))
	}
	if doer.calls != 2 {
		t.Errorf("calls = %d, want 2", doer.calls)
	}
	if p.HasMore() {
		t.Error("HasMore() = true after exhaustion")
	}
	// Exhausted pager returns nothing without hitting the network
	products, err := p.Next(context.Background())
	if err != nil || products != nil {
		t.Errorf("Next after exhaustion = (%v, %v), want (nil, nil)", products, err)
	}
	if doer.calls != 2 {
		t.Errorf("calls after exhausted Next = %d, want 2", doer.calls)
	}
}

type errDoer struct{}

func (errDoer) Query(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	return errors.New("boom")
}

func TestPager_FetchErrorStops(t *testing.T) {
	p := NewPager(errDoer{}, 10)
	if _, err := p.Next(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if p.HasMore() {
		t.Error("HasMore() = true after fetch error")
	}
}

func TestNewPager_DefaultPageSize(t *testing.T) {
	p := NewPager(errDoer{}, 0)
	if p.pageSize != 50 {
		t.Errorf("pageSize = %d, want 50", p.pageSize)
	}
}
