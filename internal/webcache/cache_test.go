package webcache

import (
	"os"
	"path/filepath"
	"testing"
)

// writeDist lays out a minimal frontend dist directory with every precached
// asset present.
func writeDist(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"index.html":          "<html>shell</html>",
		"static/js/bundle.js": "console.log('v1')",
		"static/css/main.css": "body{}",
		"manifest.json":       `{"name":"inventory"}`,
		"static/js/vendor.js": "// not precached",
	}
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestInstallAndActivate(t *testing.T) {
	root := writeDist(t)
	registry := NewRegistry()

	cache := registry.Open("v1", root)
	if cache.State() != StateInstalling {
		t.Fatalf("new cache state = %s, want installing", cache.State())
	}

	if err := cache.Install(); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	cache.Activate()
	if cache.State() != StateActive {
		t.Fatalf("state after Activate = %s, want active", cache.State())
	}

	data, ok := cache.Serve("/")
	if !ok || string(data) != "<html>shell</html>" {
		t.Errorf("Serve(/) = %q, %v", data, ok)
	}
}

func TestServeIsCacheFirst(t *testing.T) {
	root := writeDist(t)
	registry := NewRegistry()

	cache := registry.Open("v1", root)
	if err := cache.Install(); err != nil {
		t.Fatal(err)
	}
	cache.Activate()

	// Changing the file on disk must not change what an active cache serves.
	if err := os.WriteFile(filepath.Join(root, "static", "js", "bundle.js"), []byte("console.log('v2')"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, ok := cache.Serve("/static/js/bundle.js")
	if !ok {
		t.Fatal("Serve() miss for precached asset")
	}
	if string(data) != "console.log('v1')" {
		t.Errorf("Serve() = %q, want the installed copy", data)
	}
}

func TestServeFallsBackToDisk(t *testing.T) {
	root := writeDist(t)
	registry := NewRegistry()

	cache := registry.Open("v1", root)
	if err := cache.Install(); err != nil {
		t.Fatal(err)
	}
	cache.Activate()

	// vendor.js is not in the precache set, so it comes from disk.
	data, ok := cache.Serve("/static/js/vendor.js")
	if !ok || string(data) != "// not precached" {
		t.Errorf("Serve(vendor.js) = %q, %v, want disk fallback", data, ok)
	}

	if _, ok := cache.Serve("/static/js/missing.js"); ok {
		t.Error("Serve() of a missing asset reported a hit")
	}
}

func TestInstallFailsOnMissingAsset(t *testing.T) {
	root := writeDist(t)
	if err := os.Remove(filepath.Join(root, "manifest.json")); err != nil {
		t.Fatal(err)
	}

	cache := NewRegistry().Open("v1", root)
	if err := cache.Install(); err == nil {
		t.Fatal("Install() error = nil, want failure for missing precache asset")
	}
	if cache.State() != StateInstalling {
		t.Errorf("state after failed install = %s, want installing", cache.State())
	}
}

func TestActivateRetiresOlderGenerations(t *testing.T) {
	root := writeDist(t)
	registry := NewRegistry()

	v1 := registry.Open("v1", root)
	if err := v1.Install(); err != nil {
		t.Fatal(err)
	}
	v1.Activate()

	v2 := registry.Open("v2", root)
	if err := v2.Install(); err != nil {
		t.Fatal(err)
	}
	v2.Activate()

	if v1.State() != StateRedundant {
		t.Errorf("old generation state = %s, want redundant", v1.State())
	}
	if v2.State() != StateActive {
		t.Errorf("new generation state = %s, want active", v2.State())
	}

	// A redundant generation serves nothing, not even from disk.
	if _, ok := v1.Serve("/"); ok {
		t.Error("redundant generation still serving")
	}
	if data, ok := v2.Serve("/"); !ok || len(data) == 0 {
		t.Error("active generation not serving")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateInstalling, "installing"},
		{StateActive, "active"},
		{StateRedundant, "redundant"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
