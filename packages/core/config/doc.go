// Package config handles configuration loading and management for apidesk.
//
// It provides functionality for:
//   - Loading configuration from apidesk.yaml or .apidesk.json files
//   - Default configuration values
//   - Merging file settings with command-line overrides
package config
