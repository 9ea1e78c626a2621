package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"cmdlint/internal/diag"
	"cmdlint/internal/project"
	"cmdlint/internal/source"
	"cmdlint/internal/symbols"
	"cmdlint/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores per-file analysis results keyed by content hash.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is everything a cache hit needs to skip parsing: the raw
// reports (before severity overrides) and the declarations for the symbol
// table. Spans are stored without a file id; the id changes between runs.
type DiskPayload struct {
	Schema     uint16
	Path       string
	Generated  bool
	Namespaces []string
	Types      []symbols.TypeDecl
	Reports    []report
}

// OpenDiskCache initializes a cache under $XDG_CACHE_HOME/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// cacheKey ties a result to the file bytes, the analyzer build and whether
// the path alone marks the file as generated.
func cacheKey(f *source.File, generatedPath bool) project.Digest {
	return project.Combine(f.Hash, version.Version, fmt.Sprint(diskCacheSchemaVersion), strconv.FormatBool(generatedPath))
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and atomically writes a payload.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) //nolint:errcheck // gone after a successful rename

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or one written by another schema is
// a miss, not an error.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close() //nolint:errcheck

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "files"))
}

func toPayload(path string, generated bool, decls symbols.FileDecls, reports []report) *DiskPayload {
	return &DiskPayload{
		Schema:     diskCacheSchemaVersion,
		Path:       path,
		Generated:  generated,
		Namespaces: decls.Namespaces,
		Types:      decls.Types,
		Reports:    reports,
	}
}

// fromPayload rebinds cached declarations to the current file id.
func fromPayload(p *DiskPayload, id source.FileID) symbols.FileDecls {
	types := make([]symbols.TypeDecl, len(p.Types))
	for i, t := range p.Types {
		t.Span.File = id
		types[i] = t
	}
	return symbols.FileDecls{File: id, Namespaces: p.Namespaces, Types: types}
}

// report is a diagnostic as emitted by the per-file pass, kept replayable.
type report struct {
	Code     diag.Code
	Severity diag.Severity
	Start    uint32
	End      uint32
	Message  string
	Notes    []reportNote
	FixID    string // non-empty when a BindHandler fix was offered
}

type reportNote struct {
	Start uint32
	End   uint32
	Msg   string
}
