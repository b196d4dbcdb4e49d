package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"menuhub/internal/domain/importing"
	"menuhub/internal/errs"
	"menuhub/internal/infrastructure/persistence/sqldb/model"
	"menuhub/internal/ports"
)

const defaultAuditListLimit = 50

type ImportAuditLogRepository struct {
	db *gorm.DB
}

var _ ports.ImportAuditLogRepository = (*ImportAuditLogRepository)(nil)

func NewImportAuditLogRepository(db *gorm.DB) *ImportAuditLogRepository {
	return &ImportAuditLogRepository{db: db}
}

func (r *ImportAuditLogRepository) CreateAuditLog(ctx context.Context, input ports.ImportAuditLogCreate) (ports.ImportAuditLog, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ImportAuditLog{}, err
	}

	importType := strings.TrimSpace(input.ImportType)
	if importType == "" {
		return ports.ImportAuditLog{}, errors.New("import type is required")
	}
	if strings.TrimSpace(input.RunID) == "" {
		return ports.ImportAuditLog{}, errors.New("run id is required")
	}

	row := model.ImportAuditLog{
		RunID:      input.RunID,
		ImportType: importType,
		Status:     string(importing.StatusPending),
		FileName:   input.FileName,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ImportAuditLog{}, translateWriteError(err, "create import audit log")
	}
	return mapAuditLog(row), nil
}

// TransitionAuditLog applies a conditional update guarded by the expected
// current status, so each terminal transition can happen at most once.
func (r *ImportAuditLogRepository) TransitionAuditLog(ctx context.Context, id uint64, transition ports.ImportAuditLogTransition) (ports.ImportAuditLog, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ImportAuditLog{}, err
	}
	if err := importing.ValidateTransition(transition.From, transition.To); err != nil {
		return ports.ImportAuditLog{}, err
	}

	updates := map[string]any{"status": string(transition.To)}
	if transition.StartedAt != nil {
		updates["started_at"] = *transition.StartedAt
	}
	if transition.CompletedAt != nil {
		updates["completed_at"] = *transition.CompletedAt
	}
	if transition.TotalRecords != nil {
		updates["total_records"] = *transition.TotalRecords
	}
	if transition.SuccessfulRecords != nil {
		updates["successful_records"] = *transition.SuccessfulRecords
	}
	if transition.FailedRecords != nil {
		updates["failed_records"] = *transition.FailedRecords
	}
	if transition.Details != nil {
		updates["details"] = datatypes.JSON(transition.Details)
	}
	if transition.ErrorMessage != nil {
		updates["error_message"] = *transition.ErrorMessage
	}

	result := db.Model(&model.ImportAuditLog{}).
		Where("id = ? AND status = ?", id, string(transition.From)).
		Updates(updates)
	if result.Error != nil {
		return ports.ImportAuditLog{}, errs.Wrap(result.Error, "update import audit log")
	}
	if result.RowsAffected == 0 {
		current, err := getAuditLogByID(db, id)
		if err != nil {
			return ports.ImportAuditLog{}, err
		}
		return ports.ImportAuditLog{}, fmt.Errorf("%w: id=%d expected=%s actual=%s", ports.ErrAuditLogStale, id, transition.From, current.Status)
	}

	return getAuditLogByID(db, id)
}

func (r *ImportAuditLogRepository) GetAuditLog(ctx context.Context, id uint64) (ports.ImportAuditLog, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ImportAuditLog{}, err
	}
	return getAuditLogByID(db, id)
}

// ListAuditLogs returns the most recent runs first.
func (r *ImportAuditLogRepository) ListAuditLogs(ctx context.Context, filter ports.ImportAuditLogFilter) ([]ports.ImportAuditLog, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.ImportAuditLog{})
	if importType := strings.TrimSpace(filter.ImportType); importType != "" {
		query = query.Where("import_type = ?", importType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditListLimit
	}

	var rows []model.ImportAuditLog
	if err := query.Order("created_at desc").Order("id desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query import audit logs")
	}

	items := make([]ports.ImportAuditLog, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapAuditLog(row))
	}
	return items, nil
}

func getAuditLogByID(db *gorm.DB, id uint64) (ports.ImportAuditLog, error) {
	var row model.ImportAuditLog
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ImportAuditLog{}, fmt.Errorf("%w: id=%d", ports.ErrAuditLogNotFound, id)
		}
		return ports.ImportAuditLog{}, errs.Wrap(err, "query import audit log")
	}
	return mapAuditLog(row), nil
}

func mapAuditLog(row model.ImportAuditLog) ports.ImportAuditLog {
	var details []byte
	if len(row.Details) > 0 {
		details = append([]byte(nil), row.Details...)
	}
	return ports.ImportAuditLog{
		ID:                row.ID,
		RunID:             row.RunID,
		ImportType:        row.ImportType,
		Status:            importing.Status(row.Status),
		FileName:          row.FileName,
		TotalRecords:      row.TotalRecords,
		SuccessfulRecords: row.SuccessfulRecords,
		FailedRecords:     row.FailedRecords,
		Details:           details,
		ErrorMessage:      row.ErrorMessage,
		StartedAt:         row.StartedAt,
		CompletedAt:       row.CompletedAt,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}
