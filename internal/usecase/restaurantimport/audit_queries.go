package restaurantimport

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"menuhub/internal/domain/importing"
	"menuhub/internal/errs"
	"menuhub/internal/ports"
)

// AuditLogView is the read model of one import run.
type AuditLogView struct {
	ID                uint64          `json:"id"`
	RunID             string          `json:"run_id"`
	ImportType        string          `json:"import_type"`
	Status            string          `json:"status"`
	FileName          *string         `json:"file_name"`
	TotalRecords      int             `json:"total_records"`
	SuccessfulRecords int             `json:"successful_records"`
	FailedRecords     int             `json:"failed_records"`
	Details           json.RawMessage `json:"details,omitempty"`
	ErrorMessage      *string         `json:"error_message,omitempty"`
	StartedAt         *time.Time      `json:"started_at"`
	CompletedAt       *time.Time      `json:"completed_at"`
	CreatedAt         time.Time       `json:"created_at"`
}

type ListAuditLogsInput struct {
	Status string
	Limit  int
}

func (s *Service) GetAuditLog(ctx context.Context, id uint64) (AuditLogView, error) {
	if ctx == nil {
		return AuditLogView{}, errors.New("context is required")
	}

	audit, err := s.audits.GetAuditLog(ctx, id)
	if err != nil {
		return AuditLogView{}, err
	}
	return toAuditLogView(audit), nil
}

// ListAuditLogs returns restaurant import runs, most recent first. An empty
// status matches every run.
func (s *Service) ListAuditLogs(ctx context.Context, input ListAuditLogsInput) ([]AuditLogView, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	filter := ports.ImportAuditLogFilter{
		ImportType: importing.TypeRestaurants,
		Limit:      input.Limit,
	}
	if input.Status != "" {
		status, err := importing.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	audits, err := s.audits.ListAuditLogs(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]AuditLogView, 0, len(audits))
	for _, audit := range audits {
		views = append(views, toAuditLogView(audit))
	}
	return views, nil
}

// LatestAuditLog reads the cached pointer to the last run and falls back to
// the most recent row.
func (s *Service) LatestAuditLog(ctx context.Context) (AuditLogView, error) {
	if ctx == nil {
		return AuditLogView{}, errors.New("context is required")
	}

	if s.cache != nil {
		if raw, found, err := s.cache.Get(ctx, latestAuditLogCacheKey); err == nil && found {
			if id, parseErr := strconv.ParseUint(raw, 10, 64); parseErr == nil {
				audit, err := s.audits.GetAuditLog(ctx, id)
				if err == nil {
					return toAuditLogView(audit), nil
				}
				if !errors.Is(err, ports.ErrAuditLogNotFound) {
					return AuditLogView{}, err
				}
			}
		}
	}

	audits, err := s.audits.ListAuditLogs(ctx, ports.ImportAuditLogFilter{
		ImportType: importing.TypeRestaurants,
		Limit:      1,
	})
	if err != nil {
		return AuditLogView{}, errs.Wrap(err, "list latest import audit log")
	}
	if len(audits) == 0 {
		return AuditLogView{}, ports.ErrAuditLogNotFound
	}
	return toAuditLogView(audits[0]), nil
}

func toAuditLogView(audit ports.ImportAuditLog) AuditLogView {
	view := AuditLogView{
		ID:                audit.ID,
		RunID:             audit.RunID,
		ImportType:        audit.ImportType,
		Status:            string(audit.Status),
		FileName:          audit.FileName,
		TotalRecords:      audit.TotalRecords,
		SuccessfulRecords: audit.SuccessfulRecords,
		FailedRecords:     audit.FailedRecords,
		ErrorMessage:      audit.ErrorMessage,
		StartedAt:         audit.StartedAt,
		CompletedAt:       audit.CompletedAt,
		CreatedAt:         audit.CreatedAt,
	}
	if len(audit.Details) > 0 && json.Valid(audit.Details) {
		view.Details = json.RawMessage(audit.Details)
	}
	return view
}
