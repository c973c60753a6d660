// Package config holds the transcription options and loads them, with the
// logging settings, from a TOML file.
//
// Options enumerates every recognized option with its default; the TOML
// loader rejects keys it does not know instead of silently ignoring them.
// Always obtain settings through Default or Load so callers see normalized
// values and clear validation errors.
package config
