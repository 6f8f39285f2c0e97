// Package store persists named URI templates.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/uritemplate/pkg/uritemplate"
)

// Store persists template definitions by name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save compiles source and stores it under name.
	// Saving an existing name replaces its source but keeps its ID,
	// creation time and position in List.
	Save(name, source string) (Definition, error)

	// Load returns the definition for name.
	// Returns ErrNotFound if name was never saved or was deleted.
	Load(name string) (Definition, error)

	// List returns every definition in creation order.
	// Returns an empty slice (not error) for an empty store.
	List() ([]Definition, error)

	// Delete removes name. Returns nil if name doesn't exist.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Definition is a stored template.
type Definition struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Source   string    `json:"template"`
	Level    int       `json:"level"`
	Sequence int       `json:"sequence"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

// Compile compiles the stored source.
func (d Definition) Compile() (*uritemplate.Template, error) {
	return uritemplate.Compile(d.Source)
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a definition doesn't exist.
	ErrNotFound = errors.New("template not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("template store closed")

	// ErrEmptyName indicates Save was called without a name.
	ErrEmptyName = errors.New("template name is empty")
)

// validate compiles source and reports its level. Compile errors keep
// their uritemplate sentinel so callers can match on them.
func validate(name, source string) (int, error) {
	if name == "" {
		return 0, ErrEmptyName
	}
	t, err := uritemplate.Compile(source)
	if err != nil {
		return 0, fmt.Errorf("save %q: %w", name, err)
	}
	return t.Level(), nil
}
