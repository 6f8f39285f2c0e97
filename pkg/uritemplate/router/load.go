package router

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/uritemplate/pkg/uritemplate/config"
	"github.com/randalmurphal/uritemplate/pkg/uritemplate/observability"
	"github.com/randalmurphal/uritemplate/pkg/uritemplate/store"
)

// FromConfig builds a router from a decoded template file.
//
// The file's options set the name, maximum level, metrics and tracing;
// opts are applied after them and win. File routes are added in order.
// When the options name a store, its routes are added after the file's.
// Every failing definition is reported in one joined error.
func FromConfig(f config.File, opts ...Option) (*Router, error) {
	base := []Option{
		WithName(f.Options.Name(DefaultName)),
		WithMaxLevel(f.Options.MaxLevel()),
	}
	if f.Options.Metrics() {
		base = append(base, WithMetrics(observability.NewMetricsRecorder()))
	}
	if f.Options.Tracing() {
		base = append(base, WithSpanManager(observability.NewSpanManager()))
	}
	r := New(append(base, opts...)...)

	var errs []error
	for _, d := range f.Templates {
		if err := r.Add(d.Name, d.Template); err != nil {
			errs = append(errs, err)
		}
	}

	if path := f.Options.StorePath(); path != "" {
		s, err := store.NewSQLiteStore(path, store.WithBusyTimeout(f.Options.BusyTimeout()))
		if err != nil {
			observability.LogStoreError(r.logger, "open", path, err)
			errs = append(errs, err)
		} else {
			if err := r.LoadStore(s); err != nil {
				errs = append(errs, err)
			}
			if err := s.Close(); err != nil {
				observability.LogStoreError(r.logger, "close", path, err)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// FromFile loads a template file and builds a router from it.
func FromFile(path string, opts ...Option) (*Router, error) {
	f, err := config.FromFile(path)
	if err != nil {
		return nil, err
	}
	return FromConfig(f, opts...)
}

// LoadStore adds every stored definition in creation order. Definitions
// that fail to compile or exceed the maximum level are skipped and
// reported in one joined error.
func (r *Router) LoadStore(s store.Store) error {
	defs, err := s.List()
	if err != nil {
		observability.LogStoreError(r.logger, "list", "", err)
		return fmt.Errorf("load store: %w", err)
	}

	var errs []error
	for _, d := range defs {
		if err := r.Add(d.Name, d.Source); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
