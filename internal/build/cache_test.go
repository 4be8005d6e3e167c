package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *FSCache {
	t.Helper()
	fc, err := NewFSCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFSCache: %v", err)
	}
	return fc
}

func TestKeyForIsContentAddressed(t *testing.T) {
	a := KeyFor([]byte("x = 1\n"))
	b := KeyFor([]byte("x = 1\n"))
	c := KeyFor([]byte("x = 2\n"))
	if a != b {
		t.Error("identical source produced different keys")
	}
	if a == c {
		t.Error("different source produced the same key")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	fc := newTestCache(t)
	key := KeyFor([]byte("source"))
	art := Artifact{
		Files:    map[string][]byte{"main.c": []byte("int main(void) { return 0; }\n")},
		Metadata: map[string]string{"source": "test.px"},
	}
	if err := fc.Put(key, art); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := fc.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got.Files["main.c"]) != string(art.Files["main.c"]) {
		t.Error("cached bytes differ")
	}
	if got.Metadata["source"] != "test.px" {
		t.Error("metadata lost")
	}
	if !fc.Exists(key) {
		t.Error("Exists = false after Put")
	}
}

func TestMissForUnknownKey(t *testing.T) {
	fc := newTestCache(t)
	_, ok, err := fc.Get(KeyFor([]byte("never stored")))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("hit for a key never stored")
	}
	if s := fc.Stats(); s.Misses != 1 {
		t.Errorf("misses = %d, want 1", s.Misses)
	}
}

func TestIncompatibleCompilerVersionIsAMiss(t *testing.T) {
	fc := newTestCache(t)
	key := KeyFor([]byte("source"))
	art := Artifact{Files: map[string][]byte{"main.c": []byte("x")}}
	if err := fc.Put(key, art); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Rewrite the manifest as if a different-minor compiler wrote it.
	manPath := fc.manifest(key)
	raw, err := os.ReadFile(manPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var man map[string]interface{}
	if err := json.Unmarshal(raw, &man); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	man["compiler_version"] = "9.9.9"
	raw, _ = json.Marshal(man)
	if err := os.WriteFile(manPath, raw, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	_, ok, err := fc.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("entry from an incompatible compiler version was reused")
	}
}

func TestCorruptBlobFailsIntegrityCheck(t *testing.T) {
	fc := newTestCache(t)
	key := KeyFor([]byte("source"))
	if err := fc.Put(key, Artifact{Files: map[string][]byte{"main.c": []byte("original")}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	blob := filepath.Join(fc.blobDir(key), "main.c.blob")
	if err := os.WriteFile(blob, []byte("tampered"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if _, _, err := fc.Get(key); err == nil {
		t.Fatal("tampered blob passed its integrity check")
	}
}

func TestInvalidate(t *testing.T) {
	fc := newTestCache(t)
	key := KeyFor([]byte("source"))
	if err := fc.Put(key, Artifact{Files: map[string][]byte{"main.c": []byte("x")}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := fc.Invalidate(key); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if fc.Exists(key) {
		t.Error("entry survives invalidation")
	}
	if err := fc.Invalidate(key); err != nil {
		t.Errorf("invalidating a missing key should be a no-op, got %v", err)
	}
}

func TestCompatible(t *testing.T) {
	if !compatible(Version) {
		t.Error("the running compiler is incompatible with itself")
	}
	if compatible("9.9.9") {
		t.Error("different major accepted")
	}
	if compatible("not-a-version") {
		t.Error("garbage version accepted")
	}
}
