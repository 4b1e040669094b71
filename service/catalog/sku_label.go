package catalog

import "regexp"

// Trailing size/color/numeric tokens stripped when deriving a common
// base across multi-variant SKUs.
var skuSuffixPattern = regexp.MustCompile(`(?i)[-_](XXS|XS|S|M|L|XL|XXL|XXXL|2XL|3XL|ONE|OS|\d+)$`)

// DeriveSkuLabel derives the canonical product SKU label from the
// ordered variant SKUs.
//
// Zero non-empty SKUs yields no label. A single SKU is used verbatim.
// With multiple SKUs the size suffix is stripped from each; if every
// stripped base agrees and is non-empty that base wins, otherwise the
// stripped first SKU (or the raw first SKU when stripping empties it).
func DeriveSkuLabel(skus []string) (string, bool) {
	nonEmpty := make([]string, 0, len(skus))
	for _, s := range skus {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}

	if len(nonEmpty) == 0 {
		return "", false
	}
	if len(nonEmpty) == 1 {
		return nonEmpty[0], true
	}

	bases := make([]string, len(nonEmpty))
	for i, s := range nonEmpty {
		bases[i] = skuSuffixPattern.ReplaceAllString(s, "")
	}

	allSame := true
	for _, b := range bases[1:] {
		if b != bases[0] {
			allSame = false
			break
		}
	}
	if allSame && bases[0] != "" {
		return bases[0], true
	}

	if bases[0] != "" {
		return bases[0], true
	}
	return nonEmpty[0], true
}
