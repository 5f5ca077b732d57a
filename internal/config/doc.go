// Package config loads, normalizes, and validates slidesmith configuration.
//
// Configuration lives in a TOML file (default ~/.config/slidesmith/config.toml,
// falling back to ./slidesmith.toml) decoded over built-in defaults. The API
// token may come from the SLIDESMITH_API_TOKEN environment variable instead of
// the file so credentials can stay out of dotfiles.
//
// Load returns a fully expanded config: paths are home-expanded, the
// websocket URL is derived from the service URL when unset, and interval
// fields have floors applied. Validation failures name the offending key.
package config
