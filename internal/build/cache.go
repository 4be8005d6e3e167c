package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
)

// CacheKey identifies a build by the content of its source file: the
// hex sha256 of the exact source bytes. Touching a file without
// changing it never invalidates, changing one byte always does.
type CacheKey string

// KeyFor derives the cache key for a source blob.
func KeyFor(source []byte) CacheKey {
	sum := sha256.Sum256(source)
	return CacheKey(hex.EncodeToString(sum[:]))
}

// Artifact is one cached build output set: logical file name to bytes.
type Artifact struct {
	Files    map[string][]byte
	Metadata map[string]string
}

// CacheStats exposes basic cache metrics.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int64
}

// Cache abstracts a key->artifact store.
type Cache interface {
	Get(key CacheKey) (Artifact, bool, error)
	Put(key CacheKey, a Artifact) error
	Exists(key CacheKey) bool
	Invalidate(key CacheKey) error
	Stats() CacheStats
}

// FSCache stores artifacts on the filesystem under a root directory,
// one subdirectory per key with a JSON manifest beside the blobs.
//
// Every manifest records the compiler version that wrote it. A
// manifest written by a different major or minor version is treated
// as a miss rather than an error: codegen output may legally differ
// across minor versions, so stale entries silently rebuild.
type FSCache struct {
	root  string
	mu    sync.Mutex
	stats CacheStats
}

// NewFSCache ensures the root directory exists.
func NewFSCache(root string) (*FSCache, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	return &FSCache{root: root}, nil
}

type fsManifest struct {
	Key             string            `json:"key"`
	CompilerVersion string            `json:"compiler_version"`
	CreatedAt       time.Time         `json:"created_at"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Files           []fsFileEntry     `json:"files"`
}

type fsFileEntry struct {
	Name   string `json:"name"`
	Blob   string `json:"blob"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

func (fc *FSCache) keyDir(key CacheKey) string   { return filepath.Join(fc.root, string(key)) }
func (fc *FSCache) blobDir(key CacheKey) string  { return filepath.Join(fc.keyDir(key), "blobs") }
func (fc *FSCache) manifest(key CacheKey) string { return filepath.Join(fc.keyDir(key), "manifest.json") }

// compatible reports whether an entry written by wrote can be reused
// by the running compiler: same major and minor version.
func compatible(wrote string) bool {
	v, err := semver.NewVersion(wrote)
	if err != nil {
		return false
	}
	cur := semver.MustParse(Version)
	return v.Major() == cur.Major() && v.Minor() == cur.Minor()
}

func (fc *FSCache) Get(key CacheKey) (Artifact, bool, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	raw, err := os.ReadFile(fc.manifest(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fc.stats.Misses++
			return Artifact{}, false, nil
		}
		return Artifact{}, false, err
	}
	var man fsManifest
	if err := json.Unmarshal(raw, &man); err != nil {
		return Artifact{}, false, fmt.Errorf("corrupt manifest for %s: %w", key, err)
	}
	if !compatible(man.CompilerVersion) {
		fc.stats.Misses++
		return Artifact{}, false, nil
	}
	art := Artifact{Files: make(map[string][]byte, len(man.Files)), Metadata: man.Metadata}
	for _, fe := range man.Files {
		data, err := os.ReadFile(filepath.Join(fc.blobDir(key), fe.Blob))
		if err != nil {
			return Artifact{}, false, err
		}
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != fe.SHA256 {
			return Artifact{}, false, fmt.Errorf("blob %s of %s failed its integrity check", fe.Name, key)
		}
		art.Files[fe.Name] = data
	}
	fc.stats.Hits++
	return art, true, nil
}

func (fc *FSCache) Put(key CacheKey, a Artifact) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if err := os.MkdirAll(fc.blobDir(key), 0o755); err != nil {
		return err
	}
	man := fsManifest{
		Key:             string(key),
		CompilerVersion: Version,
		CreatedAt:       time.Now().UTC(),
		Metadata:        a.Metadata,
	}
	names := make([]string, 0, len(a.Files))
	for name := range a.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data := a.Files[name]
		sum := sha256.Sum256(data)
		blob := name + ".blob"
		tmp := filepath.Join(fc.blobDir(key), blob+".tmp")
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return err
		}
		if err := os.Rename(tmp, filepath.Join(fc.blobDir(key), blob)); err != nil {
			return err
		}
		man.Files = append(man.Files, fsFileEntry{
			Name:   name,
			Blob:   blob,
			Size:   int64(len(data)),
			SHA256: hex.EncodeToString(sum[:]),
		})
	}
	raw, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return err
	}
	tmp := fc.manifest(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, fc.manifest(key)); err != nil {
		return err
	}
	fc.stats.Entries++
	return nil
}

func (fc *FSCache) Exists(key CacheKey) bool {
	_, err := os.Stat(fc.manifest(key))
	return err == nil
}

func (fc *FSCache) Invalidate(key CacheKey) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	dir := fc.keyDir(key)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(dir)
}

func (fc *FSCache) Stats() CacheStats {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.stats
}
