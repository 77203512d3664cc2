// Package config provides centralized configuration management for agrodash.
// It loads configuration from multiple sources, validates it, and exposes a
// type-safe API for the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file (agrodash.yaml or configs/agrodash.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern AGRO_<SECTION>_<FIELD>:
//
//	AGRO_SERVER_PORT=8080
//	AGRO_SOURCE_LOCATION=data/precos.xlsx
//	AGRO_SOURCE_DECIMAL_SEPARATOR=,
//	AGRO_LOGGING_LEVEL=debug
//
// # Paths
//
// Output and log directories are resolved against the working directory
// unless configured as absolute paths. See GetPaths.
package config
