package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"screener/internal/dataprocessing"
	"screener/internal/files"
	"screener/internal/infrastructure"
	"screener/internal/runner"
	"screener/pkg/contracts/domain"
)

// SelectionService orchestrates the single-stock flow: sanitize the
// identifier, optionally invoke the selection script, discover the
// per-strategy CSVs and aggregate them into the daily summary.
type SelectionService struct {
	runner    *runner.Runner
	discovery *files.Discovery
	logger    *slog.Logger
	metrics   *infrastructure.Metrics
	tracer    *infrastructure.TracerProvider
}

// SelectionOptions controls one run of the single-stock flow.
type SelectionOptions struct {
	// Invoke triggers the selection script before reading files.
	Invoke bool
	// PrintOnly uses the read-only script variant that regenerates nothing.
	PrintOnly bool
}

// NewSelectionService creates a new selection service.
func NewSelectionService(r *runner.Runner, d *files.Discovery, logger *slog.Logger, metrics *infrastructure.Metrics, tracer *infrastructure.TracerProvider) *SelectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SelectionService{
		runner:    r,
		discovery: d,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
	}
}

// GetSelection runs the single-stock flow for a raw identifier.
// The identifier is sanitized before any use; an identifier that sanitizes
// to empty yields an empty result without touching the script or the
// filesystem. A script failure is surfaced in the result but never blocks
// file discovery.
func (s *SelectionService) GetSelection(ctx context.Context, rawID string, opts SelectionOptions) (*domain.SelectionResult, error) {
	id := runner.Sanitize(rawID)
	result := &domain.SelectionResult{ID: id}

	if id == "" {
		s.logger.InfoContext(ctx, "identifier sanitized to empty, nothing to do",
			slog.String("raw_id", rawID))
		return result, nil
	}

	if opts.Invoke {
		result.Script = s.invokeScript(ctx, id, opts.PrintOnly)
	}

	discovered, err := s.discovery.FindStrategyFiles(id)
	if err != nil {
		s.logger.ErrorContext(ctx, "strategy file discovery failed",
			slog.String("id", id),
			slog.String("error", err.Error()))
		return nil, err
	}

	ctx, span := s.tracer.StartSpan(ctx, "selection.aggregate",
		trace.WithAttributes(
			attribute.String("selection.id", id),
			attribute.Int("selection.files", len(discovered)),
		))
	defer span.End()

	for _, file := range discovered {
		table, readErr := dataprocessing.ReadFile(file.Path)
		if readErr != nil {
			// A single unreadable file leaves a gap, it does not fail
			// the request.
			s.logger.WarnContext(ctx, "skipping unreadable strategy file",
				slog.String("file", file.Name),
				slog.String("error", readErr.Error()))
			continue
		}
		if s.metrics != nil {
			s.metrics.FilesParsed.Inc()
		}

		result.Files = append(result.Files, domain.StrategyTable{
			FileName: file.Name,
			Strategy: dataprocessing.StrategyName(file.Name),
			ModTime:  file.ModTime,
			Table:    table,
		})
	}

	result.Summary = dataprocessing.Aggregate(result.Files)
	if s.metrics != nil {
		s.metrics.SummaryRows.Add(float64(len(result.Summary.Rows)))
	}

	s.logger.InfoContext(ctx, "selection flow completed",
		slog.String("id", id),
		slog.Int("files", len(result.Files)),
		slog.Int("summary_rows", len(result.Summary.Rows)),
		slog.Int("strategies", len(result.Summary.Strategies)))

	return result, nil
}

func (s *SelectionService) invokeScript(ctx context.Context, id string, printOnly bool) *domain.ScriptRun {
	ctx, span := s.tracer.StartSpan(ctx, "selection.script",
		trace.WithAttributes(
			attribute.String("selection.id", id),
			attribute.Bool("selection.print_only", printOnly),
		))
	defer span.End()

	var run *domain.ScriptRun
	if printOnly {
		run = s.runner.RunSelectionPrint(ctx, id)
	} else {
		run = s.runner.RunSelection(ctx, id)
	}

	if s.metrics != nil && run != nil {
		s.metrics.ScriptRuns.WithLabelValues("selection", scriptOutcome(run)).Inc()
		s.metrics.ScriptSeconds.Observe(run.Duration.Seconds())
	}

	return run
}

// scriptOutcome labels a script run for metrics.
func scriptOutcome(run *domain.ScriptRun) string {
	switch {
	case run.TimedOut:
		return "timeout"
	case run.ExitCode != 0:
		return "error"
	default:
		return "ok"
	}
}
