// Package config loads vstore.json.
//
// Settings are resolved in order: built-in defaults, the JSON file,
// VSTORE_* environment variables, then command-line flags applied by the
// caller.
//
//	{
//	  "name": "counter",
//	  "seed": "seed.yaml",
//	  "server": {"host": "localhost", "port": 3000},
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "namespace": "vstore"}
//	}
package config
