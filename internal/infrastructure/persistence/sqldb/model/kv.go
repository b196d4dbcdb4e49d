package model

type KV struct {
	Key       string `gorm:"column:key;type:varchar(255);primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	ExpiresAt *int64 `gorm:"column:expires_at"`
	UpdatedAt string `gorm:"column:updated_at;type:varchar(64);not null"`
}

func (KV) TableName() string {
	return "app_kv"
}
