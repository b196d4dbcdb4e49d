package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type MenuItem struct {
	ID          uint64                      `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string                      `gorm:"column:name;type:varchar(255);not null"`
	Description string                      `gorm:"column:description;type:text;not null;default:''"`
	Price       decimal.Decimal             `gorm:"column:price;type:decimal(8,2);not null;default:0"`
	Vegan       bool                        `gorm:"column:vegan;not null;default:false"`
	Vegetarian  bool                        `gorm:"column:vegetarian;not null;default:false"`
	Spicy       bool                        `gorm:"column:spicy;not null;default:false"`
	Categories  datatypes.JSONSlice[string] `gorm:"column:categories;not null;default:'[]'"`
	Links       []MenuItemMenu              `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time                   `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at;not null"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// MenuItemMenu joins a menu to a shared menu item. Deleting either side
// removes only the join row.
type MenuItemMenu struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	MenuID     uint64    `gorm:"column:menu_id;not null;index;uniqueIndex:idx_menu_item_menus_pair,priority:1"`
	MenuItemID uint64    `gorm:"column:menu_item_id;not null;index;uniqueIndex:idx_menu_item_menus_pair,priority:2"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (MenuItemMenu) TableName() string {
	return "menu_item_menus"
}
