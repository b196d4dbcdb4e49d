package restaurantimport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"menuhub/internal/domain/importing"
	"menuhub/internal/errs"
	"menuhub/internal/ports"
)

// Result is the outcome of one run. Failed runs carry Error and omit the
// summary, stats and duration.
type Result struct {
	Success    bool       `json:"success"`
	Summary    string     `json:"summary,omitempty"`
	Stats      *Stats     `json:"stats,omitempty"`
	Logs       []LogEntry `json:"logs"`
	AuditLogID uint64     `json:"audit_log_id"`
	Duration   *float64   `json:"duration,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// RunDetails is the snapshot stored in the audit log details column.
type RunDetails struct {
	Stats    *Stats     `json:"stats,omitempty"`
	Logs     []LogEntry `json:"logs"`
	Duration float64    `json:"duration"`
}

func encodeDetails(details RunDetails) ([]byte, error) {
	return json.Marshal(details)
}

func Summary(stats Stats) string {
	return fmt.Sprintf("Processed %d records with %d errors", stats.Total(), stats.Errors())
}

type Finalizer struct {
	audits ports.ImportAuditLogRepository
	now    func() time.Time
}

func NewFinalizer(audits ports.ImportAuditLogRepository) *Finalizer {
	return &Finalizer{audits: audits, now: time.Now}
}

// Finalize completes the audit record of a processing run. Per-record errors
// do not make the run unsuccessful.
func (f *Finalizer) Finalize(ctx context.Context, auditLogID uint64, log *ImportLogger, startedAt time.Time) (Result, error) {
	stats := log.Stats()
	logs := log.Logs()
	total := stats.Total()
	failed := stats.Errors()
	successful := total - failed

	completedAt := f.now()
	duration := completedAt.Sub(startedAt).Seconds()

	details, err := encodeDetails(RunDetails{Stats: &stats, Logs: logs, Duration: duration})
	if err != nil {
		return Result{}, errs.Wrap(err, "encode import details")
	}

	if _, err := f.audits.TransitionAuditLog(ctx, auditLogID, ports.ImportAuditLogTransition{
		From:              importing.StatusProcessing,
		To:                importing.StatusCompleted,
		CompletedAt:       &completedAt,
		TotalRecords:      &total,
		SuccessfulRecords: &successful,
		FailedRecords:     &failed,
		Details:           details,
	}); err != nil {
		return Result{}, errs.Wrap(err, "complete import audit log")
	}

	return Result{
		Success:    true,
		Summary:    Summary(stats),
		Stats:      &stats,
		Logs:       logs,
		AuditLogID: auditLogID,
		Duration:   &duration,
	}, nil
}
