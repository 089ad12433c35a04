package sheets

import (
	"context"
	"testing"
	"time"
)

type fakeFetcher struct {
	calls  int
	tables []*Table
}

func (f *fakeFetcher) FetchTab(ctx context.Context, sheetID, tab string) *Table {
	table := f.tables[f.calls%len(f.tables)]
	f.calls++
	return table
}

func tableWithValue(v string) *Table {
	return &Table{Columns: []string{"col"}, Rows: []Row{{"col": v}}}
}

func TestStore_CachesWithinTTL(t *testing.T) {
	fetcher := &fakeFetcher{tables: []*Table{tableWithValue("first"), tableWithValue("second")}}
	store := NewStore(fetcher, 5*time.Minute)

	ctx := context.Background()
	got := store.Load(ctx, "sheet", "tab")
	if got.Rows[0]["col"] != "first" {
		t.Fatalf("first load = %q", got.Rows[0]["col"])
	}
	got = store.Load(ctx, "sheet", "tab")
	if got.Rows[0]["col"] != "first" {
		t.Fatalf("cached load = %q, want first", got.Rows[0]["col"])
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.calls)
	}
}

func TestStore_RefetchesAfterTTL(t *testing.T) {
	fetcher := &fakeFetcher{tables: []*Table{tableWithValue("first"), tableWithValue("second")}}
	store := NewStore(fetcher, 5*time.Minute)

	current := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	store.Load(ctx, "sheet", "tab")

	current = current.Add(6 * time.Minute)
	got := store.Load(ctx, "sheet", "tab")
	if got.Rows[0]["col"] != "second" {
		t.Fatalf("post-TTL load = %q, want second", got.Rows[0]["col"])
	}
	if fetcher.calls != 2 {
		t.Fatalf("fetch calls = %d, want 2", fetcher.calls)
	}
}

func TestStore_ResetForcesRefetch(t *testing.T) {
	fetcher := &fakeFetcher{tables: []*Table{tableWithValue("first"), tableWithValue("second")}}
	store := NewStore(fetcher, 5*time.Minute)

	ctx := context.Background()
	store.Load(ctx, "sheet", "tab")
	store.Reset(ctx)

	got := store.Load(ctx, "sheet", "tab")
	if got.Rows[0]["col"] != "second" {
		t.Fatalf("post-reset load = %q, want second", got.Rows[0]["col"])
	}
}

func TestStore_EmptyFetchNotCached(t *testing.T) {
	fetcher := &fakeFetcher{tables: []*Table{{}, tableWithValue("late")}}
	store := NewStore(fetcher, 5*time.Minute)

	ctx := context.Background()
	if got := store.Load(ctx, "sheet", "tab"); !got.IsEmpty() {
		t.Fatal("first load should be empty")
	}
	// The failed snapshot must not poison the cache for the TTL.
	if got := store.Load(ctx, "sheet", "tab"); got.IsEmpty() {
		t.Fatal("second load should refetch and succeed")
	}
}

func TestStore_ReturnsPrivateCopies(t *testing.T) {
	fetcher := &fakeFetcher{tables: []*Table{tableWithValue("first")}}
	store := NewStore(fetcher, 5*time.Minute)

	ctx := context.Background()
	first := store.Load(ctx, "sheet", "tab")
	first.Rows[0]["col"] = "mutated"

	second := store.Load(ctx, "sheet", "tab")
	if second.Rows[0]["col"] != "first" {
		t.Fatal("reader mutation leaked into the cached snapshot")
	}
}
