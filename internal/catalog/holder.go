package catalog

import (
	"sync/atomic"
	"time"
)

// Snapshot is a validated catalog together with where and when it was loaded.
type Snapshot struct {
	Catalog  *Catalog
	Source   string
	Version  uint64
	LoadedAt time.Time
}

// Holder publishes the current catalog to concurrent readers. Readers take a
// snapshot once per request; a reload replaces the whole catalog atomically.
type Holder struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewHolder creates a holder serving c. An invalid catalog is rejected.
func NewHolder(c *Catalog, source string) (*Holder, error) {
	h := &Holder{}
	if err := h.Swap(c, source); err != nil {
		return nil, err
	}
	return h, nil
}

// Current returns the catalog in effect.
func (h *Holder) Current() *Catalog {
	return h.current.Load().Catalog
}

// Snapshot returns the catalog in effect with its metadata.
func (h *Holder) Snapshot() Snapshot {
	return *h.current.Load()
}

// Swap validates c and makes it the current catalog.
func (h *Holder) Swap(c *Catalog, source string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	h.current.Store(&Snapshot{
		Catalog:  c,
		Source:   source,
		Version:  h.version.Add(1),
		LoadedAt: time.Now().UTC(),
	})
	return nil
}

// ReloadFile loads path and swaps it in. On error the previous catalog stays.
func (h *Holder) ReloadFile(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	return h.Swap(c, path)
}

// Resolve returns the catalog at path, or the built-in one when path is empty.
func Resolve(path string) (*Catalog, string, error) {
	if path == "" {
		return Default(), "builtin", nil
	}
	c, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return c, path, nil
}
