// Package store persists debate sessions keyed by task identifier.
package store

import (
	"strings"
)

// Slug derives a filesystem-safe storage key from a task identifier.
// The derivation is deterministic: the .md extension is stripped and path
// separators become "--", so "tasks/my-feature.md" maps to
// "tasks--my-feature". Re-deriving always yields the same slug.
func Slug(taskID string) string {
	s := strings.TrimSuffix(taskID, ".md")
	s = strings.ReplaceAll(s, "\\", "--")
	s = strings.ReplaceAll(s, "/", "--")
	if s == "" {
		s = "default"
	}
	return s
}
