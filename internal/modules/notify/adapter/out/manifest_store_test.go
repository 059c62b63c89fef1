package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	notifyout "recap/internal/modules/notify/adapter/out"
)

func TestLoadMissingManifestFileIsEmpty(t *testing.T) {
	t.Parallel()
	store := notifyout.NewFileManifestStore(filepath.Join(t.TempDir(), "notifiers.json"))
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected no manifests, got %d", len(manifests))
	}
}

func TestLoadResolvesRelativeBinaryPaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.json")
	raw := `[
  {"name": "desktop", "version": "1.0.0", "binary": "bin/notify-desktop",
   "sha256": "` + strings.Repeat("ab", 32) + `", "enabled": true, "capabilities": ["notify"]},
  {"name": "abs", "version": "1.0.0", "binary": "/opt/notify",
   "sha256": "` + strings.Repeat("cd", 32) + `", "enabled": false, "capabilities": ["notify"]}
]`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write manifests: %v", err)
	}

	store := notifyout.NewFileManifestStore(path)
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("expected 2 manifests, got %d", len(manifests))
	}
	if manifests[0].Binary != filepath.Join(dir, "bin", "notify-desktop") {
		t.Fatalf("relative path must resolve against the manifest dir, got %q", manifests[0].Binary)
	}
	if manifests[1].Binary != "/opt/notify" {
		t.Fatalf("absolute path must stay untouched, got %q", manifests[1].Binary)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.json")
	raw := `[{"name": "desktop", "vesrion": "1.0.0"}]`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write manifests: %v", err)
	}
	store := notifyout.NewFileManifestStore(path)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("a misspelled manifest key must fail loudly")
	}
}
