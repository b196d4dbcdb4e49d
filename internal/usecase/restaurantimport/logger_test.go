package restaurantimport

import (
	"testing"
	"time"

	"menuhub/internal/domain/importing"
)

func TestImportLoggerKeepsOrderAndCounters(t *testing.T) {
	log := NewImportLogger(nil)
	log.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	log.Info("first")
	log.Error("second")
	log.Infof("third %d", 3)

	logs := log.Logs()
	if len(logs) != 3 {
		t.Fatalf("Logs() len = %d, want 3", len(logs))
	}
	want := []LogEntry{
		{Timestamp: "2026-03-04 05:06:07", Level: LevelInfo, Message: "first"},
		{Timestamp: "2026-03-04 05:06:07", Level: LevelError, Message: "second"},
		{Timestamp: "2026-03-04 05:06:07", Level: LevelInfo, Message: "third 3"},
	}
	for i := range want {
		if logs[i] != want[i] {
			t.Fatalf("Logs()[%d] = %+v, want %+v", i, logs[i], want[i])
		}
	}

	log.Increment(importing.KindRestaurants, CounterCreated)
	log.Increment(importing.KindMenus, CounterUpdated)
	log.Increment(importing.KindMenuItems, CounterErrors)
	log.Increment(importing.KindMenuItems, CounterErrors)
	log.Increment(importing.EntityKind("dishes"), CounterErrors)

	stats := log.Stats()
	if stats.Total() != 4 || stats.Errors() != 2 {
		t.Fatalf("Stats() total=%d errors=%d, want 4 and 2", stats.Total(), stats.Errors())
	}
	if stats.MenuItems.Errors != 2 || stats.Restaurants.Created != 1 || stats.Menus.Updated != 1 {
		t.Fatalf("Stats() = %+v", stats)
	}
	if got := Summary(stats); got != "Processed 4 records with 2 errors" {
		t.Fatalf("Summary() = %q", got)
	}
}

func TestImportLoggerLogsAreACopy(t *testing.T) {
	log := NewImportLogger(nil)
	log.Info("kept")

	logs := log.Logs()
	logs[0].Message = "changed"

	if got := log.Logs()[0].Message; got != "kept" {
		t.Fatalf("Logs()[0].Message = %q, want kept", got)
	}
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(`[1, 2]`))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if len(doc) != 0 {
		t.Fatalf("ParseDocument(array) = %v, want empty", doc)
	}

	if _, err := ParseDocument([]byte(`{"restaurants": [`)); err == nil {
		t.Fatalf("ParseDocument() expected error for truncated json")
	}
}

func TestLoaderPrefersParsedDocument(t *testing.T) {
	log := NewImportLogger(nil)
	doc := Document{"restaurants": []any{}}

	got := NewJSONLoader(t.TempDir(), log).Load(doc, "missing.json")
	if _, ok := got["restaurants"]; !ok {
		t.Fatalf("Load() = %v, want pre-parsed document", got)
	}
	if len(log.Logs()) != 0 {
		t.Fatalf("Load() logged %v", log.Logs())
	}
}
