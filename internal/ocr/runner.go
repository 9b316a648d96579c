package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner executes the poppler and tesseract binaries; tests swap in a stub.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// maxStderrLog caps how much tool stderr ends up in a log line.
const maxStderrLog = 8 << 10

type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	logger := r.logger
	if logger == nil {
		logger = slog.Default()
	}

	var out, errb bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if errors.Is(err, exec.ErrNotFound) {
		err = fmt.Errorf("%s not found on PATH (install poppler-utils / tesseract-ocr or set its path in the environment): %w", name, err)
	}

	attrs := []any{
		"tool", name,
		"args", strings.Join(args, " "),
		"elapsed_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		logger.Error("ocr.exec.failed", append(attrs, "error", err, "stderr", truncate(errb.String(), maxStderrLog))...)
		return out.Bytes(), errb.Bytes(), err
	}
	logger.Debug("ocr.exec.ok", append(attrs, "stdout_bytes", out.Len(), "stderr_bytes", errb.Len())...)
	return out.Bytes(), errb.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
