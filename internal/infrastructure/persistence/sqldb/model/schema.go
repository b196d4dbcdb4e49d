package model

import (
	"context"

	"gorm.io/gorm"
)

// All lists every table in dependency order.
func All() []any {
	return []any{
		&Restaurant{},
		&Menu{},
		&MenuItem{},
		&MenuItemMenu{},
		&ImportAuditLog{},
		&KV{},
	}
}

// Case-insensitive uniqueness cannot be expressed with struct tags; both
// SQLite and PostgreSQL accept these expression indexes.
var expressionIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_restaurants_lower_name ON restaurants (LOWER(name))",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_menu_items_lower_name ON menu_items (LOWER(name))",
}

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(All()...); err != nil {
		return err
	}
	for _, stmt := range expressionIndexes {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
