package pagination

import (
	"math"
	"testing"
)

func TestNormalizeSize(t *testing.T) {
	cases := []struct {
		size, fallback, max, want int
	}{
		{0, 12, 100, 12},
		{-3, 12, 100, 12},
		{24, 12, 100, 24},
		{500, 12, 100, 100},
		{0, 0, 0, DefaultPageSize},
		{500, 0, 0, MaxPageSize},
	}
	for _, tc := range cases {
		if got := NormalizeSize(tc.size, tc.fallback, tc.max); got != tc.want {
			t.Fatalf("NormalizeSize(%d,%d,%d) = %d, want %d", tc.size, tc.fallback, tc.max, got, tc.want)
		}
	}
}

func TestPageCount(t *testing.T) {
	if got := PageCount(0, 12); got != 0 {
		t.Fatalf("expected 0 pages for empty result, got %d", got)
	}
	if got := PageCount(12, 12); got != 1 {
		t.Fatalf("expected 1 page, got %d", got)
	}
	if got := PageCount(13, 12); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
}

func TestBounds(t *testing.T) {
	start, end := Bounds(1, 4, 10)
	if start != 0 || end != 4 {
		t.Fatalf("page 1 bounds = [%d,%d)", start, end)
	}
	start, end = Bounds(3, 4, 10)
	if start != 8 || end != 10 {
		t.Fatalf("last page bounds = [%d,%d)", start, end)
	}
	start, end = Bounds(4, 4, 10)
	if start != end {
		t.Fatalf("page past data should be empty, got [%d,%d)", start, end)
	}
	start, end = Bounds(math.MaxInt64/2, 4, 10)
	if start != 10 || end != 10 {
		t.Fatalf("huge page bounds = [%d,%d)", start, end)
	}
	start, end = Bounds(1, math.MaxInt, 10)
	if start != 0 || end != 10 {
		t.Fatalf("huge size bounds = [%d,%d)", start, end)
	}
	if count := PageCount(10, math.MaxInt); count != 1 {
		t.Fatalf("huge size page count = %d", count)
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(1, 4, 10)
	if meta.PageCount != 3 || !meta.HasNext {
		t.Fatalf("unexpected meta %+v", meta)
	}
	meta = NewMeta(3, 4, 10)
	if meta.HasNext {
		t.Fatalf("last page should not report next: %+v", meta)
	}
}
