// Package config loads runtime configuration for the GophForum CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (JSON, YAML or TOML) named by --config or
//     GOPHFORUM_CONFIG.
//  3. Environment variables: GOPHFORUM_SERVER_URL, GOPHFORUM_GRPC_ADDR,
//     GOPHFORUM_DATABASE_PATH, GOPHFORUM_REQUEST_TIMEOUT.
//  4. Command-line flags bound by the cli package, which override everything.
//
// # File schema
//
// Durations accept Go duration strings:
//
//	{
//	  "server_url": "http://localhost:3000",
//	  "grpc_addr": "localhost:50051",
//	  "database_path": "gophforum.db",
//	  "request_timeout": "10s"
//	}
package config
