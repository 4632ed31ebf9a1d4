// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Parsing is delegated to github.com/caarlos0/env; struct fields declare
// their environment variable name and default via `env` and `envDefault`
// tags. Each configuration type is parsed once per process and cached, so
// independent packages can load their own configuration without
// coordinating.
package config
