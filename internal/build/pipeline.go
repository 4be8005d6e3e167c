// Package build runs the compile pipeline: parse, verify, generate C,
// and hand the result to the backend C compiler, short-circuiting
// through a content-addressed filesystem cache.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phoenix-lang/phoenix/internal/codegen"
	"github.com/phoenix-lang/phoenix/internal/config"
	"github.com/phoenix-lang/phoenix/internal/diagnostic"
	"github.com/phoenix-lang/phoenix/internal/parser"
	"github.com/phoenix-lang/phoenix/internal/position"
	"github.com/phoenix-lang/phoenix/internal/verifier"
)

// Result reports one pipeline run. Diagnostics non-empty means the
// program was refused and no artifact paths are set.
type Result struct {
	Diagnostics diagnostic.List
	Source      *position.SourceFile // for rendering diagnostics
	CSource     string               // path of the emitted .c, empty on refusal
	Binary      string               // path of the linked binary, empty on refusal or check-only
	CacheHit    bool
}

// Check parses and verifies a source file without generating anything.
func Check(path string) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	res := Result{Source: position.NewSourceFile(path, string(src))}
	prog, diags := parser.Parse(path, string(src))
	if diags.HasErrors() {
		res.Diagnostics = diags
		return res, nil
	}
	_, diags = verifier.Verify(prog)
	res.Diagnostics = diags
	return res, nil
}

// Pipeline owns the cache and toolchain for repeated builds of one
// project; the watch loop reuses a single Pipeline across rebuilds.
type Pipeline struct {
	cache     Cache
	toolchain Toolchain
	outDir    string
}

// NewPipeline wires a pipeline from project configuration.
func NewPipeline(cfg config.Config) (*Pipeline, error) {
	cache, err := NewFSCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cache:     cache,
		toolchain: Toolchain{CC: cfg.Compiler, Flags: cfg.Flags},
		outDir:    cfg.OutDir,
	}, nil
}

// Build compiles path end to end. On a cache hit for the exact source
// bytes the verified C and binary are restored without re-running any
// stage. Refused programs return their diagnostics with a nil error;
// err is reserved for environment failures (IO, backend compiler).
func (p *Pipeline) Build(ctx context.Context, path string) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	res := Result{Source: position.NewSourceFile(path, string(src))}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cPath := filepath.Join(p.outDir, base+".c")
	binPath := filepath.Join(p.outDir, base)

	key := KeyFor(src)
	if art, ok, err := p.cache.Get(key); err == nil && ok {
		if err := restore(art, cPath, binPath); err != nil {
			return res, err
		}
		res.CSource, res.Binary, res.CacheHit = cPath, binPath, true
		return res, nil
	}

	prog, diags := parser.Parse(path, string(src))
	if diags.HasErrors() {
		res.Diagnostics = diags
		return res, nil
	}
	verified, diags := verifier.Verify(prog)
	if diags.HasErrors() {
		res.Diagnostics = diags
		return res, nil
	}

	out := codegen.Generate(verified)
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return res, err
	}
	if err := os.WriteFile(cPath, []byte(out.Source), 0o644); err != nil {
		return res, fmt.Errorf("write %s: %w", cPath, err)
	}
	if err := p.toolchain.Compile(ctx, cPath, binPath, out.NeedsMath()); err != nil {
		return res, err
	}

	binData, err := os.ReadFile(binPath)
	if err != nil {
		return res, err
	}
	art := Artifact{
		Files: map[string][]byte{
			"main.c": []byte(out.Source),
			"binary": binData,
		},
		Metadata: map[string]string{"source": path},
	}
	if err := p.cache.Put(key, art); err != nil {
		return res, fmt.Errorf("cache write: %w", err)
	}
	res.CSource, res.Binary = cPath, binPath
	return res, nil
}

// restore writes a cached artifact back to its output paths.
func restore(art Artifact, cPath, binPath string) error {
	csrc, ok := art.Files["main.c"]
	if !ok {
		return fmt.Errorf("cached artifact is missing its C source")
	}
	bin, ok := art.Files["binary"]
	if !ok {
		return fmt.Errorf("cached artifact is missing its binary")
	}
	if err := os.MkdirAll(filepath.Dir(cPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(cPath, csrc, 0o644); err != nil {
		return err
	}
	return os.WriteFile(binPath, bin, 0o755)
}
