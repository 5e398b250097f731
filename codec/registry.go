// Package codec maps file extensions onto serialization formats used to
// export and import in-memory data.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/brettbedarf/nativefs"
)

// Codec encodes and decodes values for one format
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Registry is a thread-safe lookup of codecs by extension
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Codec),
	}
}

// Register ties a codec to an extension ("json", ".JSON" and "json" are the same key).
// The first registration for an extension wins; later ones are ignored.
func (r *Registry) Register(ext string, c Codec) {
	key := normalizeExt(ext)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codecs[key]; !exists {
		r.codecs[key] = c
	}
}

// Get returns the codec registered for ext.
func (r *Registry) Get(ext string) (Codec, error) {
	key := normalizeExt(ext)
	r.mu.RLock()
	c, ok := r.codecs[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no codec for %q: %w", key, nativefs.ErrInvalidArgument)
	}
	return c, nil
}

// Extensions lists registered extensions in no particular order
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	return exts
}

// ForPath resolves "name.ext" or "name.ext.gz"/"name.ext.zst" into the codec
// for ext and the outer compression.
func (r *Registry) ForPath(path string) (Codec, Compression, error) {
	base := strings.ToLower(filepath.Base(path))
	comp := None
	switch {
	case strings.HasSuffix(base, ".gz"):
		comp = Gzip
		base = strings.TrimSuffix(base, ".gz")
	case strings.HasSuffix(base, ".zst"):
		comp = Zstd
		base = strings.TrimSuffix(base, ".zst")
	}
	ext := filepath.Ext(base)
	if ext == "" {
		return nil, None, fmt.Errorf("%s has no format extension: %w", path, nativefs.ErrInvalidArgument)
	}
	c, err := r.Get(ext)
	if err != nil {
		return nil, None, err
	}
	return c, comp, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
