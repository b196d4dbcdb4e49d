package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"menuhub/internal/errs"
	"menuhub/internal/infrastructure/persistence/sqldb/model"
	"menuhub/internal/ports"
)

type CatalogRepository struct {
	db       *gorm.DB
	validate *validator.Validate
}

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		db:       db,
		validate: validator.New(),
	}
}

func (r *CatalogRepository) FindRestaurantByName(ctx context.Context, name string) (ports.Restaurant, bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Restaurant{}, false, err
	}

	var row model.Restaurant
	if err := db.Where("name = ?", name).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Restaurant{}, false, nil
		}
		return ports.Restaurant{}, false, errs.Wrap(err, "query restaurant by name")
	}
	return mapRestaurant(row), true, nil
}

func (r *CatalogRepository) SaveRestaurant(ctx context.Context, restaurant ports.Restaurant) (ports.Restaurant, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Restaurant{}, err
	}
	if err := r.validateRestaurant(restaurant); err != nil {
		return ports.Restaurant{}, err
	}

	row := model.Restaurant{
		ID:          restaurant.ID,
		Name:        restaurant.Name,
		Email:       strings.TrimSpace(restaurant.Email),
		Description: restaurant.Description,
		Address:     restaurant.Address,
		CreatedAt:   restaurant.CreatedAt,
	}
	if err := saveInSavepoint(db, &row); err != nil {
		return ports.Restaurant{}, translateWriteError(err, "save restaurant")
	}
	return mapRestaurant(row), nil
}

func (r *CatalogRepository) validateRestaurant(restaurant ports.Restaurant) error {
	if strings.TrimSpace(restaurant.Name) == "" {
		return fmt.Errorf("%w: restaurant name can't be blank", ports.ErrInvalidRecord)
	}
	if err := r.validate.Var(strings.TrimSpace(restaurant.Email), "omitempty,email"); err != nil {
		return fmt.Errorf("%w: restaurant %q email %q is invalid", ports.ErrInvalidRecord, restaurant.Name, restaurant.Email)
	}
	return nil
}

func (r *CatalogRepository) FindMenuByName(ctx context.Context, restaurantID uint64, name string) (ports.Menu, bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Menu{}, false, err
	}

	var row model.Menu
	if err := db.Where("restaurant_id = ? AND name = ?", restaurantID, name).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Menu{}, false, nil
		}
		return ports.Menu{}, false, errs.Wrap(err, "query menu by name")
	}
	return mapMenu(row), true, nil
}

func (r *CatalogRepository) SaveMenu(ctx context.Context, menu ports.Menu) (ports.Menu, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Menu{}, err
	}
	if strings.TrimSpace(menu.Name) == "" {
		return ports.Menu{}, fmt.Errorf("%w: menu name can't be blank", ports.ErrInvalidRecord)
	}
	if menu.RestaurantID == 0 {
		return ports.Menu{}, fmt.Errorf("%w: menu %q must belong to a restaurant", ports.ErrInvalidRecord, menu.Name)
	}

	row := model.Menu{
		ID:           menu.ID,
		RestaurantID: menu.RestaurantID,
		Name:         menu.Name,
		Description:  menu.Description,
		Active:       menu.Active,
		Categories:   nonNilStrings(menu.Categories),
		CreatedAt:    menu.CreatedAt,
	}
	if err := saveInSavepoint(db, &row); err != nil {
		return ports.Menu{}, translateWriteError(err, "save menu")
	}
	return mapMenu(row), nil
}

func (r *CatalogRepository) ListMenus(ctx context.Context, restaurantID uint64) ([]ports.Menu, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Menu
	if err := db.Where("restaurant_id = ?", restaurantID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query menus")
	}

	items := make([]ports.Menu, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapMenu(row))
	}
	return items, nil
}

// FindMenuItemByName matches case-insensitively, mirroring the unique index
// on LOWER(name).
func (r *CatalogRepository) FindMenuItemByName(ctx context.Context, name string) (ports.MenuItem, bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.MenuItem{}, false, err
	}

	var row model.MenuItem
	if err := db.Where("LOWER(name) = LOWER(?)", name).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.MenuItem{}, false, nil
		}
		return ports.MenuItem{}, false, errs.Wrap(err, "query menu item by name")
	}
	return mapMenuItem(row), true, nil
}

func (r *CatalogRepository) SaveMenuItem(ctx context.Context, item ports.MenuItem) (ports.MenuItem, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.MenuItem{}, err
	}
	if strings.TrimSpace(item.Name) == "" {
		return ports.MenuItem{}, fmt.Errorf("%w: menu item name can't be blank", ports.ErrInvalidRecord)
	}

	row := model.MenuItem{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       decimal.NewFromFloat(item.Price).Round(2),
		Vegan:       item.Vegan,
		Vegetarian:  item.Vegetarian,
		Spicy:       item.Spicy,
		Categories:  nonNilStrings(item.Categories),
		CreatedAt:   item.CreatedAt,
	}
	if err := saveInSavepoint(db, &row); err != nil {
		return ports.MenuItem{}, translateWriteError(err, "save menu item")
	}
	return mapMenuItem(row), nil
}

func (r *CatalogRepository) ListMenuItems(ctx context.Context, menuID uint64) ([]ports.MenuItem, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.MenuItem
	if err := db.
		Joins("JOIN menu_item_menus ON menu_item_menus.menu_item_id = menu_items.id").
		Where("menu_item_menus.menu_id = ?", menuID).
		Order("menu_item_menus.id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query menu items")
	}

	items := make([]ports.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapMenuItem(row))
	}
	return items, nil
}

func (r *CatalogRepository) MenuHasItem(ctx context.Context, menuID uint64, menuItemID uint64) (bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(&model.MenuItemMenu{}).
		Where("menu_id = ? AND menu_item_id = ?", menuID, menuItemID).
		Count(&count).Error; err != nil {
		return false, errs.Wrap(err, "query menu item link")
	}
	return count > 0, nil
}

// AttachMenuItem is idempotent: an existing link is left as is.
func (r *CatalogRepository) AttachMenuItem(ctx context.Context, menuID uint64, menuItemID uint64) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	link := model.MenuItemMenu{MenuID: menuID, MenuItemID: menuItemID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "menu_id"}, {Name: "menu_item_id"}},
		DoNothing: true,
	}).Create(&link).Error; err != nil {
		return errs.Wrap(err, "attach menu item")
	}
	return nil
}

func (r *CatalogRepository) Counts(ctx context.Context) (ports.CatalogCounts, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.CatalogCounts{}, err
	}

	var counts ports.CatalogCounts
	targets := []struct {
		model any
		dest  *int64
	}{
		{&model.Restaurant{}, &counts.Restaurants},
		{&model.Menu{}, &counts.Menus},
		{&model.MenuItem{}, &counts.MenuItems},
		{&model.MenuItemMenu{}, &counts.MenuItemLinks},
	}
	for _, target := range targets {
		if err := db.Model(target.model).Count(target.dest).Error; err != nil {
			return ports.CatalogCounts{}, errs.Wrap(err, "count catalog rows")
		}
	}
	return counts, nil
}

// saveInSavepoint runs the write in a nested transaction so a failed
// statement can be rolled back without poisoning an outer transaction.
func saveInSavepoint(db *gorm.DB, row any) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(row).Error
	})
}

func nonNilStrings(values []string) datatypes.JSONSlice[string] {
	if values == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](values)
}

func mapRestaurant(row model.Restaurant) ports.Restaurant {
	return ports.Restaurant{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		Description: row.Description,
		Address:     row.Address,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func mapMenu(row model.Menu) ports.Menu {
	return ports.Menu{
		ID:           row.ID,
		RestaurantID: row.RestaurantID,
		Name:         row.Name,
		Description:  row.Description,
		Active:       row.Active,
		Categories:   append([]string{}, row.Categories...),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func mapMenuItem(row model.MenuItem) ports.MenuItem {
	return ports.MenuItem{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price.Round(2).InexactFloat64(),
		Vegan:       row.Vegan,
		Vegetarian:  row.Vegetarian,
		Spicy:       row.Spicy,
		Categories:  append([]string{}, row.Categories...),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
