package repository

import (
	"context"
	"errors"
	"testing"

	"menuhub/internal/infrastructure/persistence/sqldb/uow"
	"menuhub/internal/ports"
)

func TestSaveRestaurantCreatesAndUpdates(t *testing.T) {
	repo := NewCatalogRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.SaveRestaurant(ctx, ports.Restaurant{Name: "Poppo's Cafe", Email: "hi@poppo.test"})
	if err != nil {
		t.Fatalf("SaveRestaurant() error = %v", err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() {
		t.Fatalf("SaveRestaurant() = %+v", created)
	}

	created.Address = "1 Main St"
	updated, err := repo.SaveRestaurant(ctx, created)
	if err != nil {
		t.Fatalf("SaveRestaurant(update) error = %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("SaveRestaurant(update) id = %d, want %d", updated.ID, created.ID)
	}

	found, ok, err := repo.FindRestaurantByName(ctx, "Poppo's Cafe")
	if err != nil || !ok {
		t.Fatalf("FindRestaurantByName() = %v, %v", ok, err)
	}
	if found.Address != "1 Main St" {
		t.Fatalf("FindRestaurantByName() address = %q", found.Address)
	}

	if _, ok, _ := repo.FindRestaurantByName(ctx, "poppo's cafe"); ok {
		t.Fatalf("FindRestaurantByName() must match exact case")
	}
}

func TestSaveRestaurantRejectsInvalidEmail(t *testing.T) {
	repo := NewCatalogRepository(openTestDB(t))

	_, err := repo.SaveRestaurant(context.Background(), ports.Restaurant{Name: "Bad", Email: "not-an-email"})
	if !errors.Is(err, ports.ErrInvalidRecord) {
		t.Fatalf("SaveRestaurant() error = %v, want ErrInvalidRecord", err)
	}
}

func TestRestaurantNameUniqueIgnoringCase(t *testing.T) {
	repo := NewCatalogRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.SaveRestaurant(ctx, ports.Restaurant{Name: "Cafe A"}); err != nil {
		t.Fatalf("SaveRestaurant() error = %v", err)
	}
	_, err := repo.SaveRestaurant(ctx, ports.Restaurant{Name: "cafe a"})
	if !errors.Is(err, ports.ErrDuplicateRecord) {
		t.Fatalf("SaveRestaurant(dup) error = %v, want ErrDuplicateRecord", err)
	}
}

func TestMenusAreScopedToRestaurant(t *testing.T) {
	repo := NewCatalogRepository(openTestDB(t))
	ctx := context.Background()

	a, _ := repo.SaveRestaurant(ctx, ports.Restaurant{Name: "A"})
	b, _ := repo.SaveRestaurant(ctx, ports.Restaurant{Name: "B"})

	lunchA, err := repo.SaveMenu(ctx, ports.Menu{RestaurantID: a.ID, Name: "Lunch", Active: true})
	if err != nil {
		t.Fatalf("SaveMenu(a) error = %v", err)
	}
	lunchB, err := repo.SaveMenu(ctx, ports.Menu{RestaurantID: b.ID, Name: "Lunch", Active: false, Categories: []string{"Mains"}})
	if err != nil {
		t.Fatalf("SaveMenu(b) error = %v", err)
	}
	if lunchA.ID == lunchB.ID {
		t.Fatalf("SaveMenu() expected distinct rows")
	}

	got, ok, err := repo.FindMenuByName(ctx, b.ID, "Lunch")
	if err != nil || !ok {
		t.Fatalf("FindMenuByName() = %v, %v", ok, err)
	}
	if got.Active {
		t.Fatalf("FindMenuByName() active = true, want false")
	}
	if len(got.Categories) != 1 || got.Categories[0] != "Mains" {
		t.Fatalf("FindMenuByName() categories = %#v", got.Categories)
	}

	gotA, _, _ := repo.FindMenuByName(ctx, a.ID, "Lunch")
	if gotA.Categories == nil || len(gotA.Categories) != 0 {
		t.Fatalf("FindMenuByName() categories = %#v, want empty list", gotA.Categories)
	}
}

func TestMenuItemLookupIgnoresCaseAndRoundsPrice(t *testing.T) {
	repo := NewCatalogRepository(openTestDB(t))
	ctx := context.Background()

	item, err := repo.SaveMenuItem(ctx, ports.MenuItem{Name: "Burger", Price: 10.456})
	if err != nil {
		t.Fatalf("SaveMenuItem() error = %v", err)
	}
	if item.Price != 10.46 {
		t.Fatalf("SaveMenuItem() price = %v, want 10.46", item.Price)
	}

	found, ok, err := repo.FindMenuItemByName(ctx, "BURGER")
	if err != nil || !ok {
		t.Fatalf("FindMenuItemByName() = %v, %v", ok, err)
	}
	if found.ID != item.ID || found.Price != 10.46 {
		t.Fatalf("FindMenuItemByName() = %+v", found)
	}

	_, err = repo.SaveMenuItem(ctx, ports.MenuItem{Name: "burger"})
	if !errors.Is(err, ports.ErrDuplicateRecord) {
		t.Fatalf("SaveMenuItem(dup) error = %v, want ErrDuplicateRecord", err)
	}
}

func TestAttachMenuItemIsIdempotent(t *testing.T) {
	repo := NewCatalogRepository(openTestDB(t))
	ctx := context.Background()

	restaurant, _ := repo.SaveRestaurant(ctx, ports.Restaurant{Name: "A"})
	menu, _ := repo.SaveMenu(ctx, ports.Menu{RestaurantID: restaurant.ID, Name: "Lunch", Active: true})
	item, _ := repo.SaveMenuItem(ctx, ports.MenuItem{Name: "Burger", Price: 10})

	for i := 0; i < 2; i++ {
		if err := repo.AttachMenuItem(ctx, menu.ID, item.ID); err != nil {
			t.Fatalf("AttachMenuItem() #%d error = %v", i, err)
		}
	}

	has, err := repo.MenuHasItem(ctx, menu.ID, item.ID)
	if err != nil || !has {
		t.Fatalf("MenuHasItem() = %v, %v", has, err)
	}

	items, err := repo.ListMenuItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ListMenuItems() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "Burger" {
		t.Fatalf("ListMenuItems() = %+v", items)
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if counts != (ports.CatalogCounts{Restaurants: 1, Menus: 1, MenuItems: 1, MenuItemLinks: 1}) {
		t.Fatalf("Counts() = %+v", counts)
	}
}

func TestDuplicateInsideTransactionKeepsEarlierWrites(t *testing.T) {
	db := openTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	err := uow.NewUnitOfWork(db).WithTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.SaveMenuItem(txCtx, ports.MenuItem{Name: "Soup"}); err != nil {
			return err
		}
		if _, err := repo.SaveMenuItem(txCtx, ports.MenuItem{Name: "SOUP"}); !errors.Is(err, ports.ErrDuplicateRecord) {
			t.Fatalf("SaveMenuItem(dup) error = %v, want ErrDuplicateRecord", err)
		}
		_, err := repo.SaveMenuItem(txCtx, ports.MenuItem{Name: "Salad"})
		return err
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if counts.MenuItems != 2 {
		t.Fatalf("Counts().MenuItems = %d, want 2", counts.MenuItems)
	}
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := uow.NewUnitOfWork(db).WithTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.SaveRestaurant(txCtx, ports.Restaurant{Name: "Gone"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	if _, ok, _ := repo.FindRestaurantByName(ctx, "Gone"); ok {
		t.Fatalf("restaurant persisted after rollback")
	}
}

func TestSaveMenuItemAcceptsNegativePrice(t *testing.T) {
	repo := NewCatalogRepository(openTestDB(t))
	ctx := context.Background()

	item, err := repo.SaveMenuItem(ctx, ports.MenuItem{Name: "Discount", Price: -2})
	if err != nil {
		t.Fatalf("SaveMenuItem() error = %v", err)
	}

	found, ok, err := repo.FindMenuItemByName(ctx, "Discount")
	if err != nil || !ok {
		t.Fatalf("FindMenuItemByName() = %v, %v", ok, err)
	}
	if found.ID != item.ID || found.Price != -2 {
		t.Fatalf("FindMenuItemByName() = %+v, want price -2", found)
	}
}
