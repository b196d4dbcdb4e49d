package restaurantimport

import (
	"context"

	"menuhub/internal/domain/importing"
	"menuhub/internal/errs"
	"menuhub/internal/ports"
)

type MenuImporter struct {
	catalog ports.CatalogRepository
	items   *MenuItemImporter
	log     *ImportLogger
}

func NewMenuImporter(catalog ports.CatalogRepository, log *ImportLogger) *MenuImporter {
	return &MenuImporter{
		catalog: catalog,
		items:   NewMenuItemImporter(catalog, log),
		log:     log,
	}
}

// Import reconciles the menus of one restaurant. Menus are identified by name
// within the restaurant.
func (im *MenuImporter) Import(ctx context.Context, restaurant ports.Restaurant, raw any) error {
	kind := importing.KindMenus

	entries, ok := raw.([]any)
	if !ok {
		im.log.Increment(kind, CounterErrors)
		im.log.Errorf("Restaurant '%s' does not contain a valid list of menus.", restaurant.Name)
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errs.Wrap(err, "check context")
		}
		if err := im.importOne(ctx, restaurant, entry); err != nil {
			return err
		}
	}
	return nil
}

func (im *MenuImporter) importOne(ctx context.Context, restaurant ports.Restaurant, entry any) error {
	kind := importing.KindMenus

	record, ok := entry.(map[string]any)
	if !ok {
		im.log.Increment(kind, CounterErrors)
		im.log.Errorf("A menu in restaurant '%s' is not an object and was skipped.", restaurant.Name)
		return nil
	}

	reportUnsupportedKeys(im.log, kind, quoted(kind.Label(), importing.DisplayName(record)), record)

	name, ok := importing.RecordName(record)
	if !ok {
		im.log.Increment(kind, CounterErrors)
		im.log.Errorf("A menu in restaurant '%s' is missing its name.", restaurant.Name)
		return nil
	}

	fields := importing.UpdatableFields(kind, record)
	menu, created, err := reconcile(ctx, reconciler[ports.Menu]{
		find: func(ctx context.Context) (ports.Menu, bool, error) {
			return im.catalog.FindMenuByName(ctx, restaurant.ID, name)
		},
		create: func() ports.Menu {
			return ports.Menu{
				RestaurantID: restaurant.ID,
				Name:         name,
				Active:       true,
				Categories:   []string{},
			}
		},
		assign: func(m *ports.Menu) {
			if v, ok := fields["description"]; ok {
				m.Description = importing.Text(v)
			}
			if v, ok := fields["categories"]; ok {
				m.Categories = importing.StringList(v)
			}
			if v, ok := fields["active"]; ok {
				m.Active = importing.Truthy(v)
			}
		},
		save: im.catalog.SaveMenu,
	})
	if err != nil {
		if isolatedConflict(err) {
			im.log.Increment(kind, CounterErrors)
			im.log.Errorf("Duplicate menu detected: '%s' in restaurant '%s'.", name, restaurant.Name)
			return nil
		}
		return errs.Wrapf(err, "import menu %q", name)
	}

	im.log.Increment(kind, outcomeCounter(created))
	if created {
		im.log.Infof("Menu '%s' was added to restaurant '%s'.", menu.Name, restaurant.Name)
	} else {
		im.log.Infof("Menu '%s' in restaurant '%s' was updated by import.", menu.Name, restaurant.Name)
	}

	items, present := record["menu_items"]
	if !present || items == nil {
		return nil
	}
	return im.items.Import(ctx, menu, items)
}
