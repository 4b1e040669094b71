package shopify

import "testing"

func TestExtractShopifyID(t *testing.T) {
	id, err := ExtractShopifyID("gid://shopify/Product/123456789")
	if err != nil {
		t.Fatalf("ExtractShopifyID: %v", err)
	}
	if id != 123456789 {
		t.Errorf("id = %d, want 123456789", id)
	}

	for _, bad := range []string{"", "gid://shopify/Product/", "no-digits", "gid://shopify/Product/12x"} {
		if _, err := ExtractShopifyID(bad); err == nil {
			t.Errorf("ExtractShopifyID(%q) succeeded, want error", bad)
		}
	}
}

func TestConvertWeightUnit(t *testing.T) {
	cases := map[string]string{
		"KILOGRAMS": "kg",
		"GRAMS":     "g",
		"POUNDS":    "lb",
		"OUNCES":    "oz",
		"STONES":    "lb",
		"":          "lb",
	}
	for in, want := range cases {
		if got := ConvertWeightUnit(in); got != want {
			t.Errorf("ConvertWeightUnit(%q) = %q, want %q", in, got, want)
		}
	}
}
