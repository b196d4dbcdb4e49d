package model

import (
	"time"

	"gorm.io/datatypes"
)

type Menu struct {
	ID           uint64                      `gorm:"column:id;primaryKey;autoIncrement"`
	RestaurantID uint64                      `gorm:"column:restaurant_id;not null;index"`
	Name         string                      `gorm:"column:name;type:varchar(255);not null"`
	Description  string                      `gorm:"column:description;type:text;not null;default:''"`
	Active       bool                        `gorm:"column:active;not null"`
	Categories   datatypes.JSONSlice[string] `gorm:"column:categories;not null;default:'[]'"`
	Links        []MenuItemMenu              `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time                   `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time                   `gorm:"column:updated_at;not null"`
}

func (Menu) TableName() string {
	return "menus"
}
