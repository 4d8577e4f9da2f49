// SPDX-License-Identifier: MPL-2.0

// Package config handles packager configuration using Viper with CUE as the file format.
//
// Configuration is looked up at the explicit --config path, then spp.cue in the
// base directory, then $XDG_CONFIG_HOME/spp/config.cue. Every file is validated
// against the embedded schema (config_schema.cue) before being merged over the
// defaults, and SPP_* environment variables override individual keys
// (SPP_LOAD_ORDER_STRATEGY=padding).
//
// The loaded *Config is built once per process and passed explicitly to every
// component that needs it.
package config
