package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"duckcheck/internal/diag"
	"duckcheck/internal/source"
	"duckcheck/internal/symbols"
)

// Bump when CachePayload or the inference rules change.
const cacheSchemaVersion uint16 = 1

// Digest identifies one document together with the settings it was
// checked under.
type Digest [32]byte

// DiskCache stores the diagnostics of previously checked documents,
// keyed by Digest. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic is a diagnostic without its file, which is implied by
// the cache key.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Line     uint32
	Col      uint32
	EndLine  uint32
	EndCol   uint32
}

type CachePayload struct {
	Schema      uint16
	Path        string
	Nodes       uint32
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache opens (creating it if needed) a cache in dir. An empty dir
// selects $XDG_CACHE_HOME/duckcheck.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "duckcheck")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string { return c.dir }

// DocumentDigest hashes the document bytes, the program text if any and
// the reassignment policy.
func DocumentDigest(doc, text []byte, policy symbols.ReassignPolicy) Digest {
	h := sha256.New()
	var hdr [3]byte
	hdr[0] = byte(cacheSchemaVersion >> 8)
	hdr[1] = byte(cacheSchemaVersion)
	hdr[2] = byte(policy)
	_, _ = h.Write(hdr[:])
	docSum := sha256.Sum256(doc)
	_, _ = h.Write(docSum[:])
	_, _ = h.Write(text)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "docs", hex.EncodeToString(key[:])+".mp")
}

// Put writes payload atomically.
func (c *DiskCache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = cacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key. A missing entry or one written by a
// different schema is a miss, not an error.
func (c *DiskCache) Get(key Digest) (*CachePayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out CachePayload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, err
	}
	if out.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "docs"))
}

// toCached keeps every diagnostic except cache warnings, which only apply
// to the run that produced them.
func toCached(items []diag.Diagnostic) []CachedDiagnostic {
	out := make([]CachedDiagnostic, 0, len(items))
	for _, d := range items {
		if d.Code == diag.IOCacheError {
			continue
		}
		out = append(out, CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Line:     d.Primary.Line,
			Col:      d.Primary.Col,
			EndLine:  d.Primary.EndLine,
			EndCol:   d.Primary.EndCol,
		})
	}
	return out
}

// fromCached restores cached diagnostics into bag. An entry with an
// unknown severity rejects the whole payload.
func fromCached(file source.FileID, items []CachedDiagnostic, bag *diag.Bag) error {
	for i, c := range items {
		if !diag.Severity(c.Severity).Valid() {
			return fmt.Errorf("diagnostic %d has unknown severity %d", i, c.Severity)
		}
	}
	for _, c := range items {
		bag.Add(diag.New(diag.Severity(c.Severity), diag.Code(c.Code), source.Span{
			File: file, Line: c.Line, Col: c.Col, EndLine: c.EndLine, EndCol: c.EndCol,
		}, c.Message))
	}
	return nil
}
