package build

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Toolchain invokes the backend C compiler on generated sources.
type Toolchain struct {
	CC    string   // compiler binary, e.g. "cc"
	Flags []string // extra flags, e.g. ["-O3"]
}

// Compile builds srcPath into outPath. linkMath adds -lm, which the
// pipeline requests whenever the generated unit includes <math.h>.
func (tc Toolchain) Compile(ctx context.Context, srcPath, outPath string, linkMath bool) error {
	cc := tc.CC
	if cc == "" {
		cc = "cc"
	}
	args := []string{"-std=c11"}
	args = append(args, tc.Flags...)
	args = append(args, "-o", outPath, srcPath)
	if linkMath {
		args = append(args, "-lm")
	}
	cmd := exec.CommandContext(ctx, cc, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s: %w", cc, err)
		}
		return fmt.Errorf("%s: %w\n%s", cc, err, msg)
	}
	return nil
}
