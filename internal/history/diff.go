package history

import (
	"reflect"
	"sort"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

// Store-managed timestamp columns never count as audit-worthy changes, even
// when both records carry differing values for them.
var skippedFields = map[string]struct{}{ //nolint:gochecknoglobals // fixed skip list
	"created_at": {},
	"createdAt":  {},
	"updated_at": {},
	"updatedAt":  {},
}

// Diff compares two flat representations of the same entity and returns one
// FieldChange per differing field.
//
// Only keys of newRec are considered: a field present solely in oldRec is
// never reported. Comparison is strict interface equality with no type
// coercion; values of uncomparable dynamic types (slices, maps) always count
// as changed. Output is ordered by field name so it is deterministic
// regardless of map iteration order. Returns nil when nothing differs.
func Diff(oldRec, newRec map[string]any) []domain.FieldChange {
	keys := make([]string, 0, len(newRec))
	for k := range newRec {
		if _, skip := skippedFields[k]; skip {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var changes []domain.FieldChange
	for _, k := range keys {
		oldV, newV := oldRec[k], newRec[k]
		if equalStrict(oldV, newV) {
			continue
		}
		changes = append(changes, domain.FieldChange{
			Field:    k,
			OldValue: oldV,
			NewValue: newV,
		})
	}

	return changes
}

// equalStrict reports identity under strict comparison: equal dynamic type
// and == equality. Uncomparable types are never equal.
func equalStrict(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if !ta.Comparable() {
		return false
	}

	return a == b
}
