package shopify

import (
	"fmt"
	"regexp"
)

// productFragment lists every product field the importer consumes.
const productFragment = `
  fragment ProductFields on Product {
    id
    title
    handle
    descriptionHtml
    vendor
    productType
    tags
    status
    publishedAt
    metafields(first: 20) {
      edges {
        node {
          namespace
          key
          value
          type
        }
      }
    }
    variants(first: 100) {
      edges {
        node {
          id
          title
          sku
          price
          compareAtPrice
          inventoryQuantity
          position
          selectedOptions {
            name
            value
          }
          inventoryItem {
            measurement {
              weight {
                value
                unit
              }
            }
          }
        }
      }
    }
    media(first: 50) {
      edges {
        node {
          ... on MediaImage {
            id
            alt
            image {
              url
              width
              height
            }
          }
        }
      }
    }
  }
`

// GetProductsQuery pages through products with {first, after}.
const GetProductsQuery = productFragment + `
  query GetProducts($first: Int!, $after: String) {
    products(first: $first, after: $after) {
      edges {
        node {
          ...ProductFields
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
`

// GetProductsCountQuery feeds the progress denominator only; loop
// termination is cursor-driven.
const GetProductsCountQuery = `
  query GetProductsCount {
    productsCount {
      count
    }
  }
`

type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Weight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	SKU               *string          `json:"sku"`
	Price             string           `json:"price"`
	CompareAtPrice    *string          `json:"compareAtPrice"`
	InventoryQuantity *int             `json:"inventoryQuantity"`
	Position          int              `json:"position"`
	SelectedOptions   []SelectedOption `json:"selectedOptions"`
	InventoryItem     *struct {
		Measurement *struct {
			Weight *Weight `json:"weight"`
		} `json:"measurement"`
	} `json:"inventoryItem"`
}

type MediaImage struct {
	ID    string  `json:"id"`
	Alt   *string `json:"alt"`
	Image *struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"image"`
}

type Product struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Handle          string   `json:"handle"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Vendor          string   `json:"vendor"`
	ProductType     string   `json:"productType"`
	Tags            []string `json:"tags"`
	Status          string   `json:"status"`
	PublishedAt     *string  `json:"publishedAt"`
	Metafields      struct {
		Edges []struct {
			Node Metafield `json:"node"`
		} `json:"edges"`
	} `json:"metafields"`
	Variants struct {
		Edges []struct {
			Node Variant `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Media struct {
		Edges []struct {
			Node MediaImage `json:"node"`
		} `json:"edges"`
	} `json:"media"`
}

type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type productsPage struct {
	Products struct {
		Edges []struct {
			Node Product `json:"node"`
		} `json:"edges"`
		PageInfo PageInfo `json:"pageInfo"`
	} `json:"products"`
}

type productsCount struct {
	ProductsCount struct {
		Count int `json:"count"`
	} `json:"productsCount"`
}

var gidPattern = regexp.MustCompile(`/(\d+)$`)

// ExtractShopifyID pulls the trailing numeric id out of a Shopify GID,
// e.g. gid://shopify/Product/123456789 -> 123456789.
func ExtractShopifyID(gid string) (uint64, error) {
	m := gidPattern.FindStringSubmatch(gid)
	if m == nil {
		return 0, fmt.Errorf("invalid shopify gid: %q", gid)
	}
	var id uint64
	if _, err := fmt.Sscanf(m[1], "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid shopify gid: %q", gid)
	}
	return id, nil
}

// ConvertWeightUnit normalizes remote weight units to short form.
// Anything unrecognized falls back to lb.
func ConvertWeightUnit(unit string) string {
	switch unit {
	case "KILOGRAMS":
		return "kg"
	case "GRAMS":
		return "g"
	case "POUNDS":
		return "lb"
	case "OUNCES":
		return "oz"
	default:
		return "lb"
	}
}
