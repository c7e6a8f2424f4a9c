package localcache

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "vok", "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetMissingSlotReturnsEmpty(t *testing.T) {
	c := openTemp(t)
	v, err := c.Get(SlotSaved)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "" {
		t.Errorf("got %q, want empty", v)
	}
}

func TestSetOverwrites(t *testing.T) {
	c := openTemp(t)
	if err := c.Set(SlotReactions, `{"a":"up"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(SlotReactions, `{"a":"down"}`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, err := c.Get(SlotReactions)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != `{"a":"down"}` {
		t.Errorf("got %q, want latest value", v)
	}
}

func TestDeleteMissingSlotIsNoError(t *testing.T) {
	c := openTemp(t)
	if err := c.Delete("never_written"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}
