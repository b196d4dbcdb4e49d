package model

import "time"

type Restaurant struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;type:varchar(255);not null;index"`
	Email       string    `gorm:"column:email;type:varchar(255);not null;default:'';index"`
	Description string    `gorm:"column:description;type:text;not null;default:''"`
	Address     string    `gorm:"column:address;type:varchar(255);not null;default:''"`
	Menus       []Menu    `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}
