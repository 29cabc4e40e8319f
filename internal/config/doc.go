// Package config provides centralized configuration management for the
// screener service. It handles loading configuration from multiple sources,
// validation, and a type-safe API for the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml in the working directory
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SCREENER_* for namespacing:
//
//	SCREENER_SERVER_PORT=8080
//	SCREENER_SCRIPT_RUNTIME=python3
//	SCREENER_SCRIPT_TIMEOUT=2m
//	SCREENER_LOGGING_LEVEL=info
//
// # Path Management
//
// Script output directories are resolved relative to the script working
// directory unless given as absolute paths:
//
//	cfg.GetSelectionDir() // <workdir>/selection by default
//	cfg.GetResultsDir()   // <workdir>/results by default
//
// # Validation
//
// Configuration is validated at load time: the server port must be in
// range, timeouts positive, and the script runtime non-empty. Logging
// settings are normalized rather than rejected.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
