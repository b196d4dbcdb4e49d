package importing

import (
	"fmt"
	"sort"
)

// EntityKind names one of the three reconciled entity types. The values
// double as stats keys in import results.
type EntityKind string

const (
	KindRestaurants EntityKind = "restaurants"
	KindMenus       EntityKind = "menus"
	KindMenuItems   EntityKind = "menu_items"
)

type fieldRules struct {
	allowed   []string
	updatable []string
}

var rules = map[EntityKind]fieldRules{
	KindRestaurants: {
		allowed:   []string{"name", "menus", "address", "description", "email"},
		updatable: []string{"address", "description", "email"},
	},
	KindMenus: {
		allowed:   []string{"name", "menu_items", "categories", "active", "description"},
		updatable: []string{"description", "categories", "active"},
	},
	KindMenuItems: {
		allowed:   []string{"name", "categories", "description", "price", "spicy", "vegan", "vegetarian"},
		updatable: []string{"description", "categories", "price", "spicy", "vegan", "vegetarian"},
	},
}

// Label is the singular display name used in log messages.
func (k EntityKind) Label() string {
	switch k {
	case KindRestaurants:
		return "Restaurant"
	case KindMenus:
		return "Menu"
	case KindMenuItems:
		return "Menu item"
	default:
		return string(k)
	}
}

func AllowedKeys(kind EntityKind) ([]string, error) {
	r, ok := rules[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}
	return append([]string(nil), r.allowed...), nil
}

// UnsupportedKeys returns the record keys outside the allowed set, sorted so
// that log output is stable.
func UnsupportedKeys(kind EntityKind, record map[string]any) []string {
	r, ok := rules[kind]
	if !ok {
		return nil
	}

	allowed := make(map[string]struct{}, len(r.allowed))
	for _, key := range r.allowed {
		allowed[key] = struct{}{}
	}

	var out []string
	for key := range record {
		if _, ok := allowed[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// UpdatableFields picks the whitelisted attribute values present in record.
// Keys present with a null value are kept so callers can clear the field.
func UpdatableFields(kind EntityKind, record map[string]any) map[string]any {
	r, ok := rules[kind]
	if !ok {
		return nil
	}

	out := make(map[string]any, len(r.updatable))
	for _, key := range r.updatable {
		if value, ok := record[key]; ok {
			out[key] = value
		}
	}
	return out
}
