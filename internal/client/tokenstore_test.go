// ABOUTME: Tests for the file-backed token store
// ABOUTME: Verifies persistence round-trip, missing file, and corrupt file handling

package client

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileTokenStore(path)

	if err := store.Save("tok-xyz"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	tok, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if tok != "tok-xyz" {
		t.Errorf("expected tok-xyz, got %q", tok)
	}
}

func TestFileTokenStore_MissingFile(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "absent.json"))

	tok, err := store.Load()
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if tok != "" {
		t.Errorf("expected empty token, got %q", tok)
	}
}

func TestFileTokenStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewFileTokenStore(path)
	tok, err := store.Load()
	if err != nil {
		t.Fatalf("corrupt file should read as logged out, got %v", err)
	}
	if tok != "" {
		t.Errorf("expected empty token for corrupt file, got %q", tok)
	}
}

func TestFileTokenStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on Windows")
	}
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileTokenStore(path)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected mode 0600, got %o", perm)
	}
}

func TestFileTokenStore_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileTokenStore(path)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clearing an already-clear store should succeed, got %v", err)
	}

	tok, _ := store.Load()
	if tok != "" {
		t.Errorf("expected empty token after clear, got %q", tok)
	}
}
