package restaurantimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"menuhub/internal/bootstrap/logging"
	"menuhub/internal/domain/importing"
	"menuhub/internal/errs"
	"menuhub/internal/ports"
)

const latestAuditLogCacheKey = "restaurant_import:last_audit_log_id"

type Service struct {
	catalog    ports.CatalogRepository
	audits     ports.ImportAuditLogRepository
	uow        ports.UnitOfWork
	cache      ports.Cache
	importRoot string
	cacheTTL   time.Duration
	now        func() time.Time
	newRunID   func() string
}

// NewService wires the import pipeline. cache may be nil; importRoot bounds
// the files ImportInput.FilePath may name.
func NewService(
	catalog ports.CatalogRepository,
	audits ports.ImportAuditLogRepository,
	uow ports.UnitOfWork,
	cache ports.Cache,
	importRoot string,
	cacheTTL time.Duration,
) *Service {
	return &Service{
		catalog:    catalog,
		audits:     audits,
		uow:        uow,
		cache:      cache,
		importRoot: importRoot,
		cacheTTL:   cacheTTL,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

type ImportInput struct {
	// Document is used as is when non-empty.
	Document Document
	// FilePath is read relative to the import root otherwise.
	FilePath string
	// SourceName is recorded as the audit file name; defaults to the base
	// name of FilePath.
	SourceName string
}

// Import runs one import. The returned error is non-nil only when the audit
// record itself cannot be created; every later failure is reported through a
// Result with Success=false.
func (s *Service) Import(ctx context.Context, input ImportInput) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(err, "check context")
	}

	runID := s.newRunID()
	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.restaurantimport"),
		slog.String("run_id", runID),
	)

	audit, err := s.audits.CreateAuditLog(logCtx, ports.ImportAuditLogCreate{
		RunID:      runID,
		ImportType: importing.TypeRestaurants,
		FileName:   sourceName(input),
	})
	if err != nil {
		logging.Error(logCtx, "create import audit log failed", slog.Any("err", errs.Loggable(err)))
		return Result{}, errs.Wrap(err, "create import audit log")
	}
	logCtx = logging.WithAttrs(logCtx, slog.Uint64("audit_log_id", audit.ID))
	// Once the record exists it must reach a terminal status even if the
	// caller goes away mid-run.
	auditCtx := context.WithoutCancel(logCtx)
	defer s.rememberLatest(auditCtx, audit.ID)

	log := NewImportLogger(logging.Bound(logCtx))
	startedAt := s.now()
	if _, err := s.audits.TransitionAuditLog(auditCtx, audit.ID, ports.ImportAuditLogTransition{
		From:      importing.StatusPending,
		To:        importing.StatusProcessing,
		StartedAt: &startedAt,
	}); err != nil {
		return s.fail(auditCtx, audit.ID, importing.StatusPending, log, startedAt, errs.Wrap(err, "start import audit log")), nil
	}

	doc := NewJSONLoader(s.importRoot, log).Load(input.Document, input.FilePath)

	restaurants, ok := doc["restaurants"].([]any)
	if !ok {
		log.Error("The import document does not contain a list of restaurants.")
	} else {
		importer := NewRestaurantImporter(s.catalog, log)
		if err := s.reconcileInTx(logCtx, func(txCtx context.Context) error {
			return importer.Import(txCtx, restaurants)
		}); err != nil {
			return s.fail(auditCtx, audit.ID, importing.StatusProcessing, log, startedAt, err), nil
		}
	}

	finalizer := NewFinalizer(s.audits)
	finalizer.now = s.now
	result, err := finalizer.Finalize(auditCtx, audit.ID, log, startedAt)
	if err != nil {
		return s.fail(auditCtx, audit.ID, importing.StatusProcessing, log, startedAt, err), nil
	}

	logging.Info(logCtx, "restaurant import completed",
		slog.String("summary", result.Summary),
		slog.Float64("duration_seconds", *result.Duration),
	)
	return result, nil
}

// reconcileInTx runs fn in one transaction; a panic is converted into an
// error so the transaction rolls back and the run is marked failed.
func (s *Service) reconcileInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.uow.WithTx(ctx, func(txCtx context.Context) (err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = fmt.Errorf("import panicked: %v", recovered)
			}
		}()
		return fn(txCtx)
	})
}

func (s *Service) fail(ctx context.Context, auditLogID uint64, from importing.Status, log *ImportLogger, startedAt time.Time, cause error) Result {
	message := cause.Error()
	logging.Error(ctx, "restaurant import failed", slog.Any("err", errs.Loggable(cause)))

	completedAt := s.now()
	logs := log.Logs()
	transition := ports.ImportAuditLogTransition{
		From:         from,
		To:           importing.StatusFailed,
		CompletedAt:  &completedAt,
		ErrorMessage: &message,
	}
	if details, err := encodeDetails(RunDetails{Logs: logs, Duration: completedAt.Sub(startedAt).Seconds()}); err == nil {
		transition.Details = details
	}

	if _, err := s.audits.TransitionAuditLog(ctx, auditLogID, transition); err != nil {
		logging.Error(ctx, "mark import audit log failed", slog.Any("err", errs.Loggable(err)))
	}

	return Result{
		Success:    false,
		Error:      message,
		Logs:       logs,
		AuditLogID: auditLogID,
	}
}

func (s *Service) rememberLatest(ctx context.Context, auditLogID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, latestAuditLogCacheKey, fmt.Sprintf("%d", auditLogID), s.cacheTTL); err != nil {
		logging.Warn(ctx, "cache latest import run failed", slog.Any("err", errs.Loggable(err)))
	}
}

func sourceName(input ImportInput) *string {
	name := strings.TrimSpace(input.SourceName)
	if name == "" && strings.TrimSpace(input.FilePath) != "" {
		name = filepath.Base(strings.TrimSpace(input.FilePath))
	}
	if name == "" {
		return nil
	}
	return &name
}
