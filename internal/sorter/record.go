package sorter

import (
	"fmt"

	"github.com/nibzard/tasksort/internal/value"
)

// Record is a task-like mapping from attribute name to raw value.
// Records are never mutated.
type Record map[string]any

// DefaultIDField is the record key used to identify records in errors.
const DefaultIDField = "id"

// RecordID returns a printable identifier for the record at index.
// It uses the idField value when present, otherwise "#<index>".
func RecordID(rec Record, idField string, index int) string {
	if idField != "" {
		if v, ok := rec[idField]; ok && !value.IsEmpty(v) {
			return fmt.Sprint(v)
		}
	}
	return fmt.Sprintf("#%d", index)
}
