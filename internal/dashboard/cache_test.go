package dashboard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/finboard/internal/symbol"
)

func TestLoadCache_Missing(t *testing.T) {
	c, err := LoadCache(t.TempDir())
	if err != nil {
		t.Fatalf("LoadCache() = %v", err)
	}
	if c.Version != cacheVersion || len(c.Symbols) != 0 {
		t.Errorf("LoadCache() = %+v, want empty cache", c)
	}
}

func TestSymbolCache_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	r := symbol.NewRecognizer(nil)

	c, _ := LoadCache(dir)
	c.Symbols["VOD.L"] = r.Recognize("VOD.L")
	if err := c.Save(dir); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	got, err := LoadCache(dir)
	if err != nil {
		t.Fatalf("LoadCache() = %v", err)
	}
	info, ok := got.Symbols["VOD.L"]
	if !ok {
		t.Fatal("VOD.L missing after reload")
	}
	if info.Type != symbol.InternationalStock {
		t.Errorf("Type = %v, want %v", info.Type, symbol.InternationalStock)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestLoadCache_OutdatedVersion(t *testing.T) {
	dir := t.TempDir()
	content := "version: 0\nsymbols:\n  AAPL:\n    original: AAPL\n"
	if err := os.WriteFile(filepath.Join(dir, CacheFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCache(dir)
	if err != nil {
		t.Fatalf("LoadCache() = %v", err)
	}
	if len(c.Symbols) != 0 {
		t.Errorf("outdated cache should be discarded, got %v", c.Symbols)
	}
}

func TestLoadCache_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CacheFileName), []byte("version: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCache(dir); err == nil {
		t.Error("LoadCache() should fail on malformed YAML")
	}
}
