package pagination

import "testing"

func TestNormalizeAppliesDefaultsAndCaps(t *testing.T) {
	t.Parallel()

	n := Params{}.Normalize()
	if n.Page != 1 || n.PerPage != DefaultPerPage {
		t.Fatalf("unexpected defaults: %+v", n)
	}

	n = Params{Page: 3, PerPage: 500}.Normalize()
	if n.PerPage != MaxPerPage {
		t.Fatalf("expected per-page cap, got %d", n.PerPage)
	}
	if n.Page != 3 {
		t.Fatalf("page should be preserved, got %d", n.Page)
	}
}

func TestOffset(t *testing.T) {
	t.Parallel()

	if got := (Params{Page: 1, PerPage: 12}).Offset(); got != 0 {
		t.Fatalf("unexpected offset: %d", got)
	}
	if got := (Params{Page: 4, PerPage: 10}).Offset(); got != 30 {
		t.Fatalf("unexpected offset: %d", got)
	}
}

func TestNewMetaRoundsPagesUp(t *testing.T) {
	t.Parallel()

	meta := NewMeta(Params{Page: 1, PerPage: 8}, 10)
	if meta.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", meta.TotalPages)
	}
	if meta.Total != 10 {
		t.Fatalf("unexpected total: %d", meta.Total)
	}
}
