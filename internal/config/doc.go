// Package config loads the rentnav YAML configuration with ${ENV_VAR}
// expansion, duration parsing, and validation of required fields.
package config
