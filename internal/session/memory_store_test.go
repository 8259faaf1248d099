package session

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "cs_nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	sess := &Session{ID: "cs_1", Status: StatusNotReadyForPayment, Currency: "usd"}
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "cs_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "cs_1" || got.Status != StatusNotReadyForPayment {
		t.Fatalf("unexpected session %+v", got)
	}

	// Mutating the returned copy must not leak into the store.
	got.Status = StatusCanceled
	again, err := store.Get(ctx, "cs_1")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Status != StatusNotReadyForPayment {
		t.Fatal("store returned aliased state")
	}

	if err := store.Remove(ctx, "cs_1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx, "cs_1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestMemoryStorePutOverwrites(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, &Session{ID: "cs_1", Status: StatusNotReadyForPayment}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, &Session{ID: "cs_1", Status: StatusReadyForPayment}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := store.Get(ctx, "cs_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusReadyForPayment {
		t.Fatalf("expected last write to win, got %s", got.Status)
	}
}
