// Package config handles configuration loading and management for expect.
//
// It provides functionality for:
//   - Loading configuration from .expect.yaml, expect.yaml, .expect.json
//     or expect.json
//   - Default configuration values
//   - Merging file settings with command-line overrides
package config
