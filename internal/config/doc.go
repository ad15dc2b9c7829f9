// Package config provides centralized configuration for the analysis
// server and CLI.
//
// Configuration is loaded from the following sources in order of
// precedence:
//
//	1. Environment variables (TSCHECK_* via envconfig)
//	2. A YAML config file (config.yaml or configs/config.yaml)
//	3. Struct defaults
//
// Load validates the merged result: the server port, timeouts, allowed
// origins, and every analysis knob (frequency mode, IQR multiplier, jump
// threshold, trend window, concurrency) must be sane before the
// application starts.
//
// Use Default for tests and tools that need a ready-made configuration
// without touching the environment.
package config
