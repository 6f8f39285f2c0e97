package config

import (
	"errors"
	"fmt"
)

// ErrInvalidFile is wrapped by every File validation error.
var ErrInvalidFile = errors.New("invalid template file")

// Definition names one template.
type Definition struct {
	Name     string `yaml:"name" json:"name"`
	Template string `yaml:"template" json:"template"`
}

// File is a decoded template file: the routes in file order plus options.
type File struct {
	Templates []Definition
	Options   Config
}

// Validate checks that every definition has a unique, non-empty name.
// Template sources are compiled later by the router.
func (f File) Validate() error {
	var errs []error
	seen := make(map[string]int, len(f.Templates))
	for i, d := range f.Templates {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("%w: template %d has no name", ErrInvalidFile, i))
			continue
		}
		if j, dup := seen[d.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: template %q defined at %d and %d", ErrInvalidFile, d.Name, j, i))
			continue
		}
		seen[d.Name] = i
	}
	return errors.Join(errs...)
}
