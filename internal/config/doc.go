// Package config loads, normalizes, and validates podpress configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI needs: external tool binaries, logging, the pipeline event journal, and
// the processing defaults that seed new episode manifests.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
