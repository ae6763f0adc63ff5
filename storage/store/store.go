// Package store defines the key-collection contract backing the data layer:
// whole-collection documents read and replaced atomically, plus a one-shot
// seed guard. Backends must never expose partial-collection writes.
package store

// Collection names
const (
	Users       = "users"
	Assignments = "assignments"
	Submissions = "submissions"
)

type Store interface {
	// Get returns the raw collection document; nil when the collection is
	// absent. Callers own the returned slice.
	Get(collection string) ([]byte, error)
	// Put replaces the whole collection document atomically.
	Put(collection string, data []byte) error
	Seeded() (bool, error)
	MarkSeeded() error
}
