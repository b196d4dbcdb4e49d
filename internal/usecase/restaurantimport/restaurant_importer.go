package restaurantimport

import (
	"context"

	"menuhub/internal/domain/importing"
	"menuhub/internal/errs"
	"menuhub/internal/ports"
)

type RestaurantImporter struct {
	catalog ports.CatalogRepository
	menus   *MenuImporter
	log     *ImportLogger
}

func NewRestaurantImporter(catalog ports.CatalogRepository, log *ImportLogger) *RestaurantImporter {
	return &RestaurantImporter{
		catalog: catalog,
		menus:   NewMenuImporter(catalog, log),
		log:     log,
	}
}

// Import reconciles restaurants in input order. Per-record problems are
// logged and counted; any other error is returned and should abort the run.
func (im *RestaurantImporter) Import(ctx context.Context, entries []any) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errs.Wrap(err, "check context")
		}
		if err := im.importOne(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (im *RestaurantImporter) importOne(ctx context.Context, entry any) error {
	kind := importing.KindRestaurants

	record, ok := entry.(map[string]any)
	if !ok {
		im.log.Increment(kind, CounterErrors)
		im.log.Error("A restaurant entry is not an object and was skipped.")
		return nil
	}

	reportUnsupportedKeys(im.log, kind, quoted(kind.Label(), importing.DisplayName(record)), record)

	name, ok := importing.RecordName(record)
	if !ok {
		im.log.Increment(kind, CounterErrors)
		im.log.Error("A restaurant entry is missing its name and was skipped.")
		return nil
	}

	fields := importing.UpdatableFields(kind, record)
	restaurant, created, err := reconcile(ctx, reconciler[ports.Restaurant]{
		find: func(ctx context.Context) (ports.Restaurant, bool, error) {
			return im.catalog.FindRestaurantByName(ctx, name)
		},
		create: func() ports.Restaurant {
			return ports.Restaurant{Name: name}
		},
		assign: func(r *ports.Restaurant) {
			if v, ok := fields["address"]; ok {
				r.Address = importing.Text(v)
			}
			if v, ok := fields["description"]; ok {
				r.Description = importing.Text(v)
			}
			if v, ok := fields["email"]; ok {
				r.Email = importing.Text(v)
			}
		},
		save: im.catalog.SaveRestaurant,
	})
	if err != nil {
		if isolatedConflict(err) {
			im.log.Increment(kind, CounterErrors)
			im.log.Errorf("Duplicate restaurant detected: '%s'.", name)
			return nil
		}
		return errs.Wrapf(err, "import restaurant %q", name)
	}

	im.log.Increment(kind, outcomeCounter(created))
	if created {
		im.log.Infof("Restaurant '%s' was created by import.", restaurant.Name)
	} else {
		im.log.Infof("Restaurant '%s' was updated by import.", restaurant.Name)
	}

	menus, present := record["menus"]
	if !present || menus == nil {
		menus = []any{}
	}
	return im.menus.Import(ctx, restaurant, menus)
}
