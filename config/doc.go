// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Environment files (.env, .env.local) are applied first so PORT and
// SQLITE_DATABASE can override the file. The package supports multiple named
// networks and allows network selection by name.
package config
