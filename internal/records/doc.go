// Package records loads and saves the record collections tasksort orders.
//
// A record file is either a bare array of objects or an object holding the
// array under "tasks":
//
//	{
//	  "project": "demo",
//	  "tasks": [
//	    {"id": "T001", "priority": 1, "due_time": "2030-01-01T00:00:00Z"},
//	    {"id": "T002", "priority": 3, "due_time": null}
//	  ]
//	}
//
// Files ending in .yaml or .yml are read and written as YAML, everything else
// as JSON. JSON numbers keep their literal form so integers and floats stay
// distinguishable.
//
// # File Format
//
// When writing JSON, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Stable key ordering (via JSON marshaling)
//
// Top-level keys other than "tasks" are preserved.
package records
