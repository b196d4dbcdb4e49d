package ports

import (
	"context"
	"errors"
	"time"

	"menuhub/internal/domain/importing"
)

var (
	ErrAuditLogNotFound = errors.New("import audit log not found")
	// ErrAuditLogStale reports a conditional transition whose expected
	// current status no longer matches the stored row.
	ErrAuditLogStale = errors.New("import audit log status changed concurrently")
)

type ImportAuditLog struct {
	ID                uint64
	RunID             string
	ImportType        string
	Status            importing.Status
	FileName          *string
	TotalRecords      int
	SuccessfulRecords int
	FailedRecords     int
	Details           []byte
	ErrorMessage      *string
	StartedAt         *time.Time
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ImportAuditLogCreate struct {
	RunID      string
	ImportType string
	FileName   *string
}

// ImportAuditLogTransition moves a record from one status to the next. Nil
// fields are left untouched.
type ImportAuditLogTransition struct {
	From              importing.Status
	To                importing.Status
	StartedAt         *time.Time
	CompletedAt       *time.Time
	TotalRecords      *int
	SuccessfulRecords *int
	FailedRecords     *int
	Details           []byte
	ErrorMessage      *string
}

type ImportAuditLogFilter struct {
	ImportType string
	Status     importing.Status
	Limit      int
}

type ImportAuditLogRepository interface {
	CreateAuditLog(ctx context.Context, input ImportAuditLogCreate) (ImportAuditLog, error)
	TransitionAuditLog(ctx context.Context, id uint64, transition ImportAuditLogTransition) (ImportAuditLog, error)
	GetAuditLog(ctx context.Context, id uint64) (ImportAuditLog, error)
	ListAuditLogs(ctx context.Context, filter ImportAuditLogFilter) ([]ImportAuditLog, error)
}
