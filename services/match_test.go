package services

import "testing"

func TestTokenSortRatioIdentical(t *testing.T) {
	if got := TokenSortRatio("university of california", "university of california"); got != 100 {
		t.Errorf("identical strings = %d; want 100", got)
	}
}

func TestTokenSortRatioWordOrder(t *testing.T) {
	if got := TokenSortRatio("berkeley california", "california berkeley"); got != 100 {
		t.Errorf("reordered words = %d; want 100", got)
	}
}

func TestTokenSortRatioPartial(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"purdue university", "purdue", 35},
		{"harvard", "harvard university", 39},
		{"abc", "xyz", 0},
	}

	for _, tt := range tests {
		got := TokenSortRatio(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("TokenSortRatio(%q, %q) = %d; want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenSortRatioEmpty(t *testing.T) {
	if got := TokenSortRatio("", ""); got != 0 {
		t.Errorf("empty strings = %d; want 0", got)
	}
}
