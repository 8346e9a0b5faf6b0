package pagination

import (
	"testing"
	"time"
)

func TestPaginationParamsValidate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 0}
	p.Validate()
	if p.Page != 1 || p.PerPage != 15 {
		t.Fatalf("expected defaults 1/15, got %d/%d", p.Page, p.PerPage)
	}

	p = &PaginationParams{Page: 3, PerPage: 500}
	p.Validate()
	if p.PerPage != 100 {
		t.Fatalf("expected per_page capped at 100, got %d", p.PerPage)
	}
	if p.Page != 3 {
		t.Fatalf("expected page preserved, got %d", p.Page)
	}
}

func TestOffset(t *testing.T) {
	p := &PaginationParams{Page: 3, PerPage: 15}
	if got := p.Offset(); got != 30 {
		t.Fatalf("expected offset 30, got %d", got)
	}
}

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 15, 31)
	if pg.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", pg.TotalPages)
	}
	if !pg.HasNext || !pg.HasPrev {
		t.Fatalf("page 2 of 3 should have both next and prev")
	}

	pg = NewPagination(1, 15, 10)
	if pg.HasNext || pg.HasPrev {
		t.Fatalf("single page should have neither next nor prev")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	encoded := EncodeCursor("abc-123", now)

	params := &CursorParams{Cursor: encoded}
	cursor, err := params.DecodeCursor()
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if cursor.ID != "abc-123" {
		t.Fatalf("expected id abc-123, got %s", cursor.ID)
	}
	if !cursor.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, cursor.CreatedAt)
	}
}

func TestDecodeCursorEmpty(t *testing.T) {
	params := &CursorParams{Cursor: ""}
	cursor, err := params.DecodeCursor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cursor != nil {
		t.Fatalf("expected nil cursor for empty input")
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	params := &CursorParams{Cursor: "not-base64!!!"}
	if _, err := params.DecodeCursor(); err == nil {
		t.Fatalf("expected error for invalid cursor")
	}
}

type row struct {
	id string
	at time.Time
}

func TestNewCursorPagination(t *testing.T) {
	base := time.Now()
	items := []row{
		{id: "a", at: base},
		{id: "b", at: base.Add(time.Second)},
		{id: "c", at: base.Add(2 * time.Second)},
	}

	// Fetched limit+1 rows, so there is a next page
	pg, trimmed := NewCursorPagination(items, 2,
		func(r row) string { return r.id },
		func(r row) time.Time { return r.at },
	)
	if !pg.HasNext {
		t.Fatalf("expected has_next when extra row fetched")
	}
	if len(trimmed) != 2 {
		t.Fatalf("expected items trimmed to 2, got %d", len(trimmed))
	}
	if pg.NextCursor == nil || pg.PrevCursor == nil {
		t.Fatalf("expected both cursors to be set")
	}

	next := &CursorParams{Cursor: *pg.NextCursor}
	decoded, err := next.DecodeCursor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.ID != "b" {
		t.Fatalf("next cursor should point at last returned row, got %s", decoded.ID)
	}
}
