// Package config loads runtime settings.
//
// Settings come from built-in defaults, then an optional YAML file, then
// environment variables prefixed with ARCHIVIST, for example
// ARCHIVIST_LINKER_FUZZY_THRESHOLD or ARCHIVIST_PIPELINE_POOL_SIZE. The
// merged result is validated before use.
package config
