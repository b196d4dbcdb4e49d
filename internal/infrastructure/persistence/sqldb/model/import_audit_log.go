package model

import (
	"time"

	"gorm.io/datatypes"
)

type ImportAuditLog struct {
	ID                uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	RunID             string         `gorm:"column:run_id;type:varchar(36);not null;uniqueIndex"`
	ImportType        string         `gorm:"column:import_type;type:varchar(64);not null;index"`
	Status            string         `gorm:"column:status;type:varchar(32);not null;index"`
	FileName          *string        `gorm:"column:file_name;type:varchar(512)"`
	TotalRecords      int            `gorm:"column:total_records;not null;default:0"`
	SuccessfulRecords int            `gorm:"column:successful_records;not null;default:0"`
	FailedRecords     int            `gorm:"column:failed_records;not null;default:0"`
	Details           datatypes.JSON `gorm:"column:details"`
	ErrorMessage      *string        `gorm:"column:error_message;type:text"`
	StartedAt         *time.Time     `gorm:"column:started_at"`
	CompletedAt       *time.Time     `gorm:"column:completed_at"`
	CreatedAt         time.Time      `gorm:"column:created_at;not null;index"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;not null"`
}

func (ImportAuditLog) TableName() string {
	return "import_audit_logs"
}
