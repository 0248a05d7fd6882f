// Package config loads, validates, and defaults showrunner's TOML
// configuration. Paths are tilde-expanded and normalized to absolute form at
// load time so the rest of the repository never deals with raw user input.
package config
