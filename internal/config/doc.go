// Package config loads runtime configuration for the socialsync client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the social network API
//	-d string   path to the local SQLite database
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds)
//	-r int      retry attempts for transient request failures
//	-w int      concurrent upload workers
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be
// either strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.example.com/v0.7",
//	  "database_path": "socialsync.db",
//	  "online_check_interval": "3s",
//	  "request_timeout": "15s",
//	  "retry_attempts": 3,
//	  "drain_concurrency": 4
//	}
//
// This package does not read environment variables; use the JSON file
// or flags to configure values.
package config
