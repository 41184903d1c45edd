package history

import (
	"fmt"
	"testing"

	"github.com/reqdesk-hq/reqdesk/internal/domain"
)

func TestMemoryStoreNewestFirst(t *testing.T) {
	store := newMemoryStore(10)

	for i := 0; i < 3; i++ {
		err := store.Append(domain.Exchange{RequestID: fmt.Sprintf("r%d", i)})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	recent, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].RequestID != "r2" || recent[1].RequestID != "r1" {
		t.Fatalf("wrong order: %+v", recent)
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	store := newMemoryStore(2)

	for i := 0; i < 5; i++ {
		if err := store.Append(domain.Exchange{RequestID: fmt.Sprintf("r%d", i)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	recent, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected capacity 2, got %d entries", len(recent))
	}
	if recent[0].RequestID != "r4" || recent[1].RequestID != "r3" {
		t.Fatalf("wrong survivors: %+v", recent)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Append(domain.Exchange{RequestID: "x"}); err != nil {
		t.Fatalf("noop store Append: %v", err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
}
