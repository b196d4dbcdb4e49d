package restaurantimport

import (
	"fmt"
	"log/slog"
	"time"

	"menuhub/internal/domain/importing"
)

const logTimestampLayout = "2006-01-02 15:04:05"

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
}

type Counter string

const (
	CounterCreated Counter = "created"
	CounterUpdated Counter = "updated"
	CounterErrors  Counter = "errors"
)

type Counters struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

func (c Counters) total() int {
	return c.Created + c.Updated + c.Errors
}

type Stats struct {
	Restaurants Counters `json:"restaurants"`
	Menus       Counters `json:"menus"`
	MenuItems   Counters `json:"menu_items"`
}

// Total counts every created, updated and failed record.
func (s Stats) Total() int {
	return s.Restaurants.total() + s.Menus.total() + s.MenuItems.total()
}

func (s Stats) Errors() int {
	return s.Restaurants.Errors + s.Menus.Errors + s.MenuItems.Errors
}

func (s *Stats) bucket(kind importing.EntityKind) *Counters {
	switch kind {
	case importing.KindRestaurants:
		return &s.Restaurants
	case importing.KindMenus:
		return &s.Menus
	case importing.KindMenuItems:
		return &s.MenuItems
	default:
		return nil
	}
}

// ImportLogger collects the log entries and counters of one import run. It is
// owned by a single run and is not safe for concurrent use.
type ImportLogger struct {
	sink  *slog.Logger
	now   func() time.Time
	logs  []LogEntry
	stats Stats
}

// NewImportLogger mirrors every entry to sink when it is non-nil.
func NewImportLogger(sink *slog.Logger) *ImportLogger {
	return &ImportLogger{
		sink: sink,
		now:  time.Now,
		logs: []LogEntry{},
	}
}

func (l *ImportLogger) Info(message string) {
	l.append(LevelInfo, message)
}

func (l *ImportLogger) Error(message string) {
	l.append(LevelError, message)
}

func (l *ImportLogger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *ImportLogger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// Increment bumps one counter. Unknown kinds or counters are ignored.
func (l *ImportLogger) Increment(kind importing.EntityKind, counter Counter) {
	bucket := l.stats.bucket(kind)
	if bucket == nil {
		return
	}
	switch counter {
	case CounterCreated:
		bucket.Created++
	case CounterUpdated:
		bucket.Updated++
	case CounterErrors:
		bucket.Errors++
	}
}

// Logs returns a copy of the entries in insertion order.
func (l *ImportLogger) Logs() []LogEntry {
	return append([]LogEntry{}, l.logs...)
}

func (l *ImportLogger) Stats() Stats {
	return l.stats
}

func (l *ImportLogger) append(level Level, message string) {
	l.logs = append(l.logs, LogEntry{
		Timestamp: l.now().Format(logTimestampLayout),
		Level:     level,
		Message:   message,
	})

	if l.sink == nil {
		return
	}
	if level == LevelError {
		l.sink.Error(message)
		return
	}
	l.sink.Info(message)
}
