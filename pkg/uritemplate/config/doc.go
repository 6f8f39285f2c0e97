/*
Package config loads named URI templates and router options from files.

# Overview

A template file lists routes in order plus an options table. Order matters:
the router tries routes in the order they were defined.

YAML:

	templates:
	  - name: user
	    template: /users/{id}
	  - name: docs
	    template: /docs/{+path}
	options:
	  name: api
	  max_level: 2
	  metrics: true

JSON uses the same keys. HCL uses labelled blocks:

	route "user" {
	  template = "/users/{id}"
	}

	options = {
	  name      = "api"
	  max_level = 2
	}

Load any of them with FromFile, which picks the decoder by extension:

	f, err := config.FromFile("routes.hcl")

# Options

Options are exposed through Config, a typed view over the decoded map.
Accessors never fail; they return the default when a key is missing or has
the wrong type:

	f.Options.MaxLevel()    // max_level, default 2
	f.Options.Metrics()     // metrics, default false
	f.Options.Tracing()     // tracing, default false
	f.Options.StorePath()   // store, SQLite path
	f.Options.BusyTimeout() // busy_timeout, default 5s

# Validation

Loading checks that every route has a unique, non-empty name. All problems
are reported together and wrap ErrInvalidFile. Template syntax is checked
when the router compiles the file.
*/
package config
