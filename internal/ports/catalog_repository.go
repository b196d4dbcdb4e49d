package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDuplicateRecord reports a uniqueness violation (for example two
	// menu items whose names differ only in case).
	ErrDuplicateRecord = errors.New("duplicate record")
	// ErrInvalidRecord reports a record rejected by model validation.
	ErrInvalidRecord = errors.New("invalid record")
)

type Restaurant struct {
	ID          uint64
	Name        string
	Email       string
	Description string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Menu struct {
	ID           uint64
	RestaurantID uint64
	Name         string
	Description  string
	Active       bool
	Categories   []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MenuItem is globally identified by its case-insensitive name and shared by
// every menu that lists it. Price is kept in cents-precision decimal form by
// the adapter; callers see it as a float rounded to two places.
type MenuItem struct {
	ID          uint64
	Name        string
	Description string
	Price       float64
	Vegan       bool
	Vegetarian  bool
	Spicy       bool
	Categories  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CatalogCounts struct {
	Restaurants   int64
	Menus         int64
	MenuItems     int64
	MenuItemLinks int64
}

// CatalogRepository covers the reconciliation needs of the import pipeline.
// Save* creates when ID is zero and updates otherwise.
type CatalogRepository interface {
	FindRestaurantByName(ctx context.Context, name string) (Restaurant, bool, error)
	SaveRestaurant(ctx context.Context, restaurant Restaurant) (Restaurant, error)

	FindMenuByName(ctx context.Context, restaurantID uint64, name string) (Menu, bool, error)
	SaveMenu(ctx context.Context, menu Menu) (Menu, error)
	ListMenus(ctx context.Context, restaurantID uint64) ([]Menu, error)

	FindMenuItemByName(ctx context.Context, name string) (MenuItem, bool, error)
	SaveMenuItem(ctx context.Context, item MenuItem) (MenuItem, error)
	ListMenuItems(ctx context.Context, menuID uint64) ([]MenuItem, error)

	MenuHasItem(ctx context.Context, menuID uint64, menuItemID uint64) (bool, error)
	AttachMenuItem(ctx context.Context, menuID uint64, menuItemID uint64) error

	Counts(ctx context.Context) (CatalogCounts, error)
}
