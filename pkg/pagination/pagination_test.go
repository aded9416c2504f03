package pagination

import "testing"

func TestNormalize(t *testing.T) {
	p := Normalize(Params{Page: 0, Limit: 0})
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("expected defaults, got %+v", p)
	}

	p = Normalize(Params{Page: -3, Limit: 500})
	if p.Page != 1 || p.Limit != MaxLimit {
		t.Fatalf("expected clamped values, got %+v", p)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 2, Limit: 10}).Offset(); got != 10 {
		t.Fatalf("expected offset 10, got %d", got)
	}
	if got := (Params{Page: 1, Limit: 25}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(Params{Page: 2, Limit: 10}, 25)
	if meta.Total != 25 {
		t.Fatalf("expected total 25, got %d", meta.Total)
	}
	if meta.Page != 2 {
		t.Fatalf("expected page 2, got %d", meta.Page)
	}
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", meta.TotalPages)
	}
	if !meta.HasMore {
		t.Fatal("expected more pages after page 2 of 25 rows")
	}

	meta = BuildMeta(Params{Page: 3, Limit: 10}, 25)
	if meta.HasMore {
		t.Fatal("expected no more pages on the last page")
	}

	meta = BuildMeta(Params{Page: 1, Limit: 10}, 0)
	if meta.TotalPages != 0 || meta.HasMore {
		t.Fatalf("expected empty meta, got %+v", meta)
	}
}
