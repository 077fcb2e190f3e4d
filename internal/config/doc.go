// Package config defines configuration structures for the windl CLI.
//
// Configuration can be provided via, in increasing precedence:
//   - Defaults
//   - YAML configuration file (--config, or ~/.windl.yaml when present)
//   - Environment variables (WINDL_ prefix)
//   - Command-line flags
//
// # File format
//
//	user_agent: WinDL/1.0
//	buffer_size: 16KiB
//	update_interval: 250ms
//	connect_timeout: 30s
//	display: line        # or bar
//	bucket: s3://my-bucket?region=us-east-1
//	assume_yes: false
//	log_level: warn
package config
