// Package config resolves msgboard's runtime configuration.
//
// An optional CUE file is checked against the embedded #Config schema,
// then MSGBOARD_* variables from a .env file and the process environment
// are applied on top. The result is validated before use.
package config
