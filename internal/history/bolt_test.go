package history

import (
	"testing"
	"time"

	"github.com/reqdesk-hq/reqdesk/internal/domain"
)

func TestBoltStoreAppendAndRecent(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ExchangeTTL:     time.Hour,
		CleanupInterval: time.Hour,
	}

	storeRaw, err := openBolt(dir+"/history.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	for _, id := range []string{"first", "second", "third"} {
		err := store.Append(domain.Exchange{
			RequestID:    id,
			Method:       "GET",
			URL:          "https://example.com/" + id,
			Status:       200,
			DispatchedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Append %s: %v", id, err)
		}
	}

	recent, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].RequestID != "third" || recent[1].RequestID != "second" {
		t.Fatalf("wrong order: %+v", recent)
	}
}

func TestBoltStoreExpiresEntries(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ExchangeTTL:     1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/history.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	if err := store.Append(domain.Exchange{RequestID: "old"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	recent, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent after expiry: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected expired entries to be gone, got %+v", recent)
	}
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/history.db"
	opts := Options{ExchangeTTL: time.Hour, CleanupInterval: time.Hour}

	store, err := openBolt(path, opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	if err := store.Append(domain.Exchange{RequestID: "kept"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := openBolt(path, opts)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	recent, err := reopened.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].RequestID != "kept" {
		t.Fatalf("entry lost across reopen: %+v", recent)
	}
}
