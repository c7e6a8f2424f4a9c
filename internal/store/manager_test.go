package store

import (
	"context"
	"testing"

	"voice-of-kalki/internal/model"
)

func TestManagerReturnsSameStorePerUser(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	defer m.Close()

	a, err := m.For(context.Background(), "u1")
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	b, err := m.For(context.Background(), "u1")
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if a != b {
		t.Fatal("same user should map to the same store")
	}
}

func TestManagerIsolatesUsers(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	defer m.Close()

	a, _ := m.For(context.Background(), "u1")
	b, _ := m.For(context.Background(), "u2")
	a.ToggleSave(model.NewsItem{ID: "x", Title: "X"})

	if b.IsSaved("x") {
		t.Fatal("bookmark leaked across users")
	}
}

func TestManagerRejectsEmptyUser(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	defer m.Close()

	if _, err := m.For(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
