// Package config loads, normalizes, and validates podcut configuration data.
//
// It supplies repository defaults for every detector threshold, expands user
// paths (including tilde shortcuts), reads TOML files, and honours environment
// fallbacks such as PODCUT_LOG_LEVEL and PODCUT_LEXICON. The Config type
// centralizes every knob the pipeline and CLI need so thresholds are tuned in
// one place instead of being scattered through detector code.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
