package services

import (
	"context"
	"log/slog"

	apierrors "screener/internal/errors"
	"screener/internal/dataprocessing"
	"screener/internal/files"
	"screener/internal/infrastructure"
	"screener/internal/runner"
	"screener/pkg/contracts/domain"
)

// refreshLiteral is the exact request value that triggers the batch script.
const refreshLiteral = "yes"

// BatchCategory binds one fixed result file to its screening-stage title.
type BatchCategory struct {
	ID       string
	Title    string
	FileName string
}

// batchCategories is the fixed, ordered set of screening stages the batch
// script writes. The titles mirror the filter each stage applies.
var batchCategories = []BatchCategory{
	{ID: "data1", Title: "Daily gain between 3% and 5%", FileName: "data1.csv"},
	{ID: "data2", Title: "Volume ratio at least 1", FileName: "data2.csv"},
	{ID: "data3", Title: "Turnover rate between 5% and 10%", FileName: "data3.csv"},
	{ID: "data4", Title: "Float capitalization 5 to 20 billion", FileName: "data4.csv"},
	{ID: "data5", Title: "Trading above the daily average price", FileName: "data5.csv"},
}

// BatchService orchestrates the multi-file flow: optionally trigger the
// batch screening script, then read the five fixed stage files. Each file
// renders independently; there is no cross-file join.
type BatchService struct {
	runner    *runner.Runner
	discovery *files.Discovery
	logger    *slog.Logger
	metrics   *infrastructure.Metrics
	tracer    *infrastructure.TracerProvider
}

// NewBatchService creates a new batch service.
func NewBatchService(r *runner.Runner, d *files.Discovery, logger *slog.Logger, metrics *infrastructure.Metrics, tracer *infrastructure.TracerProvider) *BatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchService{
		runner:    r,
		discovery: d,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
	}
}

// Categories returns the fixed stage set, in render order.
func (s *BatchService) Categories() []BatchCategory {
	return batchCategories
}

// GetBatch runs the multi-file flow. The batch script is triggered only
// when refresh equals the literal "yes". The flow assumes a complete file
// set: any missing stage file, or one without a header row, halts the
// response before any table is rendered.
func (s *BatchService) GetBatch(ctx context.Context, refresh string) (*domain.BatchResult, error) {
	result := &domain.BatchResult{}

	if refresh == refreshLiteral {
		ctx2, span := s.tracer.StartSpan(ctx, "batch.script")
		result.Script = s.runner.RunBatch(ctx2)
		span.End()

		if s.metrics != nil && result.Script != nil {
			s.metrics.ScriptRuns.WithLabelValues("batch", scriptOutcome(result.Script)).Inc()
			s.metrics.ScriptSeconds.Observe(result.Script.Duration.Seconds())
		}
	}

	for _, category := range batchCategories {
		info, err := s.discovery.StatResultFile(category.FileName)
		if err != nil {
			s.logger.ErrorContext(ctx, "batch result file missing",
				slog.String("file", category.FileName),
				slog.String("error", err.Error()))
			return nil, apierrors.BatchFileMissingError(category.FileName, err)
		}

		table, err := dataprocessing.ReadFile(info.Path)
		if err != nil {
			return nil, apierrors.FileSystemError("reading "+category.FileName, err)
		}
		if table.Empty() {
			// The batch files always carry a header row; a file without
			// one means the screening run was cut short.
			return nil, apierrors.BatchHeaderMissingError(category.FileName)
		}
		if s.metrics != nil {
			s.metrics.FilesParsed.Inc()
		}

		result.Categories = append(result.Categories, domain.BatchCategoryResult{
			ID:       category.ID,
			Title:    category.Title,
			FileName: category.FileName,
			ModTime:  info.ModTime,
			Table:    table,
		})
	}

	s.logger.InfoContext(ctx, "batch flow completed",
		slog.Int("categories", len(result.Categories)),
		slog.Bool("refreshed", result.Script != nil))

	return result, nil
}
