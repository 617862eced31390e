// Package config loads and validates cinepress configuration.
//
// Configuration is read from a TOML file, overlaid with CINEPRESS_* environment
// variables, and normalized (home expansion, defaulting) before use. The
// resulting Config is passed explicitly to every component; there is no
// global instance.
package config
