// Package config loads the server's process configuration from the
// environment, optionally layered over a YAML file.
package config
