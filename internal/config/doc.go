// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. Server and client
// binaries share one Config type but validate only the groups they use.
package config
