package storage_test

import (
	"io"
	"strings"
	"testing"

	"projecthub/internal/storage"
)

func TestLocalStoreSaveAndOpen(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	key, size, err := store.Save(strings.NewReader("hello"), "report.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Errorf("key %q should keep the extension", key)
	}
	if strings.Contains(key, "report") {
		t.Errorf("key %q must not leak the original name", key)
	}

	rc, err := store.Open(key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("content = %q", content)
	}
}

func TestLocalStoreRemove(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	key, _, err := store.Save(strings.NewReader("x"), "a.txt")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Remove(key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Open(key); err == nil {
		t.Fatal("expected Open to fail after Remove")
	}
}

func TestLocalStoreKeyTraversalSafe(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	// A hostile key must not escape the upload dir.
	if _, err := store.Open("../../etc/passwd"); err == nil {
		t.Fatal("expected traversal key to fail")
	}
}
