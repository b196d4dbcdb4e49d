package restaurantimport

import (
	"context"
	"errors"
	"fmt"

	"menuhub/internal/domain/importing"
	"menuhub/internal/ports"
)

// reconciler describes find-or-create-then-assign for one entity type.
type reconciler[T any] struct {
	find   func(ctx context.Context) (T, bool, error)
	create func() T
	assign func(entity *T)
	save   func(ctx context.Context, entity T) (T, error)
}

// reconcile returns the saved entity and whether it was newly created.
func reconcile[T any](ctx context.Context, r reconciler[T]) (T, bool, error) {
	var zero T

	entity, found, err := r.find(ctx)
	if err != nil {
		return zero, false, err
	}
	if !found {
		entity = r.create()
	}
	r.assign(&entity)

	saved, err := r.save(ctx, entity)
	if err != nil {
		return zero, false, err
	}
	return saved, !found, nil
}

// isolatedConflict reports whether err is a uniqueness conflict that should be
// counted against the record instead of aborting the run.
func isolatedConflict(err error) bool {
	return errors.Is(err, ports.ErrDuplicateRecord)
}

// reportUnsupportedKeys logs one error per key outside the allowed set. The
// record is still processed.
func reportUnsupportedKeys(log *ImportLogger, kind importing.EntityKind, subject string, record map[string]any) {
	for _, key := range importing.UnsupportedKeys(kind, record) {
		log.Increment(kind, CounterErrors)
		log.Errorf("%s contains an unsupported field: '%s'.", subject, key)
	}
}

func outcomeCounter(created bool) Counter {
	if created {
		return CounterCreated
	}
	return CounterUpdated
}

func quoted(label string, name string) string {
	return fmt.Sprintf("%s '%s'", label, name)
}
