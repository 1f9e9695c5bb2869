package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.RWMutex
	loaded = make(map[string]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into the provided struct based on `env`
// field tags and caches the result per concrete type, so the runtime resolves
// a given configuration shape once per process rather than re-reading the
// environment ambiently mid-operation.
//
// A .env file in the working directory is loaded on first use; its absence is
// not an error.
//
//	type Policy struct {
//	    ValidateAt string `env:"STATEKIT_VALIDATE_AT" envDefault:"none"`
//	    OnError    string `env:"STATEKIT_ON_ERROR" envDefault:"log"`
//	}
//
//	var p Policy
//	if err := config.Load(&p); err != nil { ... }
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := typeKey[T]()

	mu.RLock()
	cached, ok := loaded[key]
	mu.RUnlock()
	if ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsing, err)
	}

	mu.Lock()
	loaded[key] = *v
	mu.Unlock()
	return nil
}

// MustLoad works like Load but panics on failure. Use it for configuration
// the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load %s: %v", typeKey[T](), err))
	}
}

// Reset drops the cache. Intended for tests that vary environment values.
func Reset() {
	mu.Lock()
	loaded = make(map[string]any)
	mu.Unlock()
}

func typeKey[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}
