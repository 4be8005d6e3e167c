package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Compiler != def.Compiler || cfg.CacheDir != def.CacheDir || cfg.OutDir != def.OutDir {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, def)
	}
	if cfg.Watch.Debounce != def.Watch.Debounce {
		t.Errorf("debounce = %v, want %v", cfg.Watch.Debounce, def.Watch.Debounce)
	}
}

func TestPartialFileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "compiler: clang\nout_dir: build\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Compiler != "clang" {
		t.Errorf("compiler = %q, want clang", cfg.Compiler)
	}
	if cfg.OutDir != "build" {
		t.Errorf("out_dir = %q, want build", cfg.OutDir)
	}
	if cfg.CacheDir != Default().CacheDir {
		t.Errorf("cache_dir = %q, want default", cfg.CacheDir)
	}
	if len(cfg.Flags) == 0 {
		t.Error("flags lost their default")
	}
}

func TestDebounceIsParsedFromDurationString(t *testing.T) {
	path := writeConfig(t, "watch:\n  debounce: 50ms\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Watch.Debounce != 50*time.Millisecond {
		t.Errorf("debounce = %v, want 50ms", cfg.Watch.Debounce)
	}
}

func TestMalformedFileIsAnError(t *testing.T) {
	path := writeConfig(t, "compiler: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatal("malformed YAML accepted")
	}
}

func TestBadDebounceIsAnError(t *testing.T) {
	path := writeConfig(t, "watch:\n  debounce: sometimes\n")
	if _, err := Load(path); err == nil {
		t.Fatal("unparseable debounce accepted")
	}
}
