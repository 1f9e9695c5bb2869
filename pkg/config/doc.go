// Package config loads typed configuration structs from environment
// variables, with struct tags declaring variable names and defaults.
//
// Results are cached per concrete type: a configuration shape is resolved
// once and every later Load of the same type returns the cached value. The
// state runtime relies on this to resolve its error-policy knobs once per
// operation instead of re-reading the environment mid-construction.
//
// A .env file, when present, is loaded before the first parse.
//
//	type Policy struct {
//	    ValidateAt string `env:"STATEKIT_VALIDATE_AT" envDefault:"none"`
//	    OnError    string `env:"STATEKIT_ON_ERROR" envDefault:"log"`
//	}
//
//	var p Policy
//	config.MustLoad(&p)
package config
