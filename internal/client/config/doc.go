// Package config loads runtime configuration for the Ordo terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables (ORDO_*, GEMINI_API_KEY), after an optional
//     dotenv file given with -env or found at ./.env.
//  4. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "backend": "remote",
//	  "database_path": "ordo.db",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "api_key": "AIza...",
//	  "request_timeout": "10s",
//	  "splash_delay": "2s"
//	}
package config
