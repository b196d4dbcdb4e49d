package restaurantimport

import (
	"context"
	"fmt"

	"menuhub/internal/domain/importing"
	"menuhub/internal/errs"
	"menuhub/internal/ports"
)

type MenuItemImporter struct {
	catalog ports.CatalogRepository
	log     *ImportLogger
}

func NewMenuItemImporter(catalog ports.CatalogRepository, log *ImportLogger) *MenuItemImporter {
	return &MenuItemImporter{catalog: catalog, log: log}
}

// Import reconciles items against the global item catalog and attaches each
// one to menu at most once.
func (im *MenuItemImporter) Import(ctx context.Context, menu ports.Menu, raw any) error {
	kind := importing.KindMenuItems

	entries, ok := raw.([]any)
	if !ok {
		im.log.Increment(kind, CounterErrors)
		im.log.Errorf("Menu '%s' does not contain menu items.", menu.Name)
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errs.Wrap(err, "check context")
		}
		if err := im.importOne(ctx, menu, entry); err != nil {
			return err
		}
	}
	return nil
}

func (im *MenuItemImporter) importOne(ctx context.Context, menu ports.Menu, entry any) error {
	kind := importing.KindMenuItems

	record, ok := entry.(map[string]any)
	if !ok {
		im.log.Increment(kind, CounterErrors)
		im.log.Errorf("An item in menu '%s' is not an object and was skipped.", menu.Name)
		return nil
	}

	subject := fmt.Sprintf("Menu item '%s' in menu '%s'", importing.DisplayName(record), menu.Name)
	reportUnsupportedKeys(im.log, kind, subject, record)

	name, ok := importing.RecordName(record)
	if !ok {
		im.log.Increment(kind, CounterErrors)
		im.log.Errorf("An item in menu '%s' is missing name.", menu.Name)
		return nil
	}

	fields := importing.UpdatableFields(kind, record)
	item, created, err := reconcile(ctx, reconciler[ports.MenuItem]{
		find: func(ctx context.Context) (ports.MenuItem, bool, error) {
			return im.catalog.FindMenuItemByName(ctx, name)
		},
		create: func() ports.MenuItem {
			return ports.MenuItem{Name: name, Categories: []string{}}
		},
		assign: func(it *ports.MenuItem) {
			if v, ok := fields["description"]; ok {
				it.Description = importing.Text(v)
			}
			if v, ok := fields["categories"]; ok {
				it.Categories = importing.StringList(v)
			}
			if v, ok := fields["spicy"]; ok {
				it.Spicy = importing.Truthy(v)
			}
			if v, ok := fields["vegan"]; ok {
				it.Vegan = importing.Truthy(v)
			}
			if v, ok := fields["vegetarian"]; ok {
				it.Vegetarian = importing.Truthy(v)
			}
			// Price is always assigned; absent or non-numeric values become 0.
			it.Price = importing.Number(fields["price"])
		},
		save: im.catalog.SaveMenuItem,
	})
	if err != nil {
		if isolatedConflict(err) {
			im.log.Increment(kind, CounterErrors)
			im.log.Errorf("Duplicate menu item detected: '%s'.", name)
			return nil
		}
		return errs.Wrapf(err, "import menu item %q", name)
	}

	im.log.Increment(kind, outcomeCounter(created))
	if created {
		im.log.Infof("Menu item '%s' was created by import.", item.Name)
	} else {
		im.log.Infof("Menu item '%s' was updated by import.", item.Name)
	}

	attached, err := im.catalog.MenuHasItem(ctx, menu.ID, item.ID)
	if err != nil {
		return errs.Wrapf(err, "check menu item %q link", item.Name)
	}
	if attached {
		return nil
	}
	if err := im.catalog.AttachMenuItem(ctx, menu.ID, item.ID); err != nil {
		return errs.Wrapf(err, "attach menu item %q", item.Name)
	}
	im.log.Infof("Menu item '%s' was added to menu '%s'.", item.Name, menu.Name)
	return nil
}
