package compute

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/capacitor"
)

const DefaultBuildTimeout = 60 * time.Second

// Builder runs the one-time build step that produces the native library.
type Builder struct {
	Command []string
	Dir     string
	Timeout time.Duration
	Logger  *zap.Logger
}

// DefaultBuilder runs make in sourceDir.
func DefaultBuilder(sourceDir string) *Builder {
	return &Builder{
		Command: []string{"make", "-C", sourceDir},
		Timeout: DefaultBuildTimeout,
	}
}

// Build runs the command. An expired timeout or canceled ctx is reported as
// a build-stage BackendError like any other failure.
func (b *Builder) Build(ctx context.Context, libraryPath string) error {
	if len(b.Command) == 0 {
		return &capacitor.BackendError{Stage: capacitor.StageBuild, Path: libraryPath, Err: errors.New("no build command configured")}
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBuildTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, b.Command[0], b.Command[1:]...)
	cmd.Dir = b.Dir
	log.Info("building native component",
		zap.String("command", strings.Join(b.Command, " ")),
		zap.Duration("timeout", timeout))

	start := time.Now()
	out, err := cmd.CombinedOutput()
	log.Debug("build finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.ByteString("output", out))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return &capacitor.BackendError{
			Stage: capacitor.StageBuild,
			Path:  libraryPath,
			Err:   fmt.Errorf("build did not finish within %s: %w", timeout, ctxErr),
		}
	}
	if err != nil {
		if detail := lastLine(out); detail != "" {
			err = fmt.Errorf("%s: %w", detail, err)
		}
		return &capacitor.BackendError{Stage: capacitor.StageBuild, Path: libraryPath, Err: err}
	}
	return nil
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return lines[len(lines)-1]
}
