package runner

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"screener/internal/config"
	"screener/pkg/contracts/domain"
)

// identifierAllowList keeps only characters that can appear in a stock
// identifier. The identifier is passed to the script as a discrete argv
// element so it never reaches a shell, but the allow-list stays as defense
// in depth.
var identifierAllowList = regexp.MustCompile(`[^0-9A-Za-z.]+`)

// Sanitize strips every character outside [0-9A-Za-z.] from an identifier.
func Sanitize(id string) string {
	return identifierAllowList.ReplaceAllString(id, "")
}

// Runner invokes the external screening scripts. Every invocation is
// bounded by the configured timeout; expiry is reported like a non-zero
// exit and never aborts the surrounding flow.
type Runner struct {
	cfg    config.ScriptConfig
	logger *slog.Logger
}

// New creates a runner for the configured scripts.
func New(cfg config.ScriptConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// RunSelection invokes the selection script for a sanitized identifier.
// An empty identifier performs no invocation and returns nil.
func (r *Runner) RunSelection(ctx context.Context, id string) *domain.ScriptRun {
	if id == "" {
		return nil
	}
	return r.run(ctx, r.cfg.SelectionScript, "--id", id)
}

// RunSelectionPrint invokes the read-only variant of the selection script:
// it prints existing signals without regenerating data.
func (r *Runner) RunSelectionPrint(ctx context.Context, id string) *domain.ScriptRun {
	if id == "" {
		return nil
	}
	return r.run(ctx, r.cfg.SelectionScript, "--id", id, "--print", "N")
}

// RunBatch invokes the batch screening script with no arguments.
func (r *Runner) RunBatch(ctx context.Context) *domain.ScriptRun {
	return r.run(ctx, r.cfg.BatchScript)
}

func (r *Runner) run(ctx context.Context, script string, args ...string) *domain.ScriptRun {
	argv := append([]string{script}, args...)

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.cfg.Runtime, argv...)
	cmd.Dir = r.cfg.WorkDir

	r.logger.InfoContext(ctx, "running screening script",
		slog.String("runtime", r.cfg.Runtime),
		slog.String("script", script),
		slog.Any("args", args))

	start := time.Now()
	output, err := cmd.CombinedOutput()
	duration := time.Since(start)

	result := &domain.ScriptRun{
		Command:  r.cfg.Runtime,
		Args:     argv,
		Output:   splitLines(output),
		Duration: duration,
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		result.ExitCode = -1
		r.logger.WarnContext(ctx, "screening script timed out",
			slog.String("script", script),
			slog.Duration("timeout", r.cfg.Timeout))
	case err != nil:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// The script never started (missing runtime or script file).
			// Surface the failure in the captured output; the flow still
			// continues to file discovery.
			result.ExitCode = -1
			result.Output = append(result.Output, err.Error())
		}
		r.logger.WarnContext(ctx, "screening script exited with error",
			slog.String("script", script),
			slog.Int("exit_code", result.ExitCode),
			slog.String("error", err.Error()))
	default:
		r.logger.InfoContext(ctx, "screening script completed",
			slog.String("script", script),
			slog.Duration("duration", duration),
			slog.Int("output_lines", len(result.Output)))
	}

	return result
}

// splitLines splits combined output into lines, dropping a trailing blank.
func splitLines(output []byte) []string {
	text := strings.TrimRight(string(output), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
