package services

import "testing"

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 1},
		{2, 500, 2, 100},
		{4, 25, 4, 25},
	}
	for _, tc := range cases {
		p, s := normalizePage(tc.page, tc.size)
		if p != tc.wantPage || s != tc.wantSize {
			t.Fatalf("normalizePage(%d,%d): got=(%d,%d) want=(%d,%d)", tc.page, tc.size, p, s, tc.wantPage, tc.wantSize)
		}
	}
}

func TestTotalPages(t *testing.T) {
	if got := totalPages(0, 10); got != 0 {
		t.Fatalf("totalPages(0): got=%d", got)
	}
	if got := totalPages(21, 10); got != 3 {
		t.Fatalf("totalPages(21,10): got=%d", got)
	}
	if got := totalPages(20, 10); got != 2 {
		t.Fatalf("totalPages(20,10): got=%d", got)
	}
}

func TestMergeStringsDedupes(t *testing.T) {
	got := mergeStrings([]string{"go", "sql"}, []string{" go ", "", "redis"})
	if len(got) != 3 || got[0] != "go" || got[1] != "sql" || got[2] != "redis" {
		t.Fatalf("mergeStrings: got=%v", got)
	}
}
