package dashboard

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/symbol"
)

// CacheFileName is the symbol cache file inside the data directory.
const CacheFileName = "symbols.yaml"

// cacheVersion is bumped when the file layout changes; older files are
// discarded.
const cacheVersion = 1

// SymbolCache is the on-disk record of recognized watchlist symbols.
type SymbolCache struct {
	Version   int                    `yaml:"version"`
	UpdatedAt time.Time              `yaml:"updated_at"`
	Symbols   map[string]symbol.Info `yaml:"symbols"`
}

// LoadCache reads the cache in dir. A missing or outdated file yields an
// empty cache.
func LoadCache(dir string) (*SymbolCache, error) {
	empty := &SymbolCache{Version: cacheVersion, Symbols: make(map[string]symbol.Info)}

	data, err := os.ReadFile(filepath.Join(dir, CacheFileName))
	if errors.Is(err, os.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading symbol cache")
	}

	var c SymbolCache
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "parsing symbol cache")
	}
	if c.Version != cacheVersion || c.Symbols == nil {
		return empty, nil
	}
	return &c, nil
}

// Save writes the cache to dir, replacing the previous file atomically.
func (c *SymbolCache) Save(dir string) error {
	c.Version = cacheVersion
	c.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshaling symbol cache")
	}

	tmp, err := os.CreateTemp(dir, CacheFileName+".*")
	if err != nil {
		return errors.Wrap(err, "creating symbol cache")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing symbol cache")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "writing symbol cache")
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, CacheFileName)); err != nil {
		return errors.Wrap(err, "replacing symbol cache")
	}
	return nil
}
