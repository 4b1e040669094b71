package catalog

import "testing"

func TestDeriveSkuLabel(t *testing.T) {
	cases := []struct {
		name  string
		skus  []string
		want  string
		found bool
	}{
		{"no skus", nil, "", false},
		{"all empty", []string{"", ""}, "", false},
		{"single sku verbatim", []string{"TEE-001-M"}, "TEE-001-M", true},
		{"common base after stripping sizes", []string{"TEE-001-S", "TEE-001-M", "TEE-001-XL"}, "TEE-001", true},
		{"underscore separator", []string{"HAT_9_S", "HAT_9_L"}, "HAT_9", true},
		{"case insensitive suffix", []string{"TEE-001-s", "TEE-001-m"}, "TEE-001", true},
		{"numeric suffix", []string{"SHOE-42", "SHOE-43"}, "SHOE", true},
		{"disagreeing bases use first", []string{"TEE-001-S", "HAT-002-M"}, "TEE-001", true},
		{"empty first base falls back to raw", []string{"-S", "HAT-002-M"}, "-S", true},
		{"one size token", []string{"MUG-01-OS", "MUG-01-ONE"}, "MUG-01", true},
		{"empty entries ignored", []string{"", "TEE-001-L", ""}, "TEE-001-L", true},
		{"suffix not at end kept", []string{"TEE-M-001", "TEE-M-002"}, "TEE-M", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := DeriveSkuLabel(tc.skus)
			if got != tc.want || found != tc.found {
				t.Errorf("DeriveSkuLabel(%v) = (%q, %v), want (%q, %v)",
					tc.skus, got, found, tc.want, tc.found)
			}
		})
	}
}
