// Package config loads, validates, and normalizes dropsort configuration.
//
// Configuration lives in a TOML file resolved from an explicit --config
// flag, ~/.config/dropsort/config.toml, or ./dropsort.toml in that order.
// Defaults cover every field so a missing file yields a working setup; the
// embedded sample_config.toml documents each knob and backs the
// `dropsort config init` command.
package config
