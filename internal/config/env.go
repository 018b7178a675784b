package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order. Variables already present in the process
// environment are never overwritten.
var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads the .env files that exist and reports which were read.
func LoadEnvFiles() []string {
	var loaded []string
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s couldn't be loaded: %v\n", path, err)
			continue
		}
		loaded = append(loaded, path)
	}
	return loaded
}

// Env resolves environment variables. Tests substitute a map-backed lookup.
type Env struct {
	Lookup func(key string) (string, bool)
}

// ProcessEnv reads the real process environment.
func ProcessEnv() Env {
	return Env{Lookup: os.LookupEnv}
}

// MapEnv serves variables from m.
func MapEnv(m map[string]string) Env {
	return Env{Lookup: func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}}
}

// Get returns the non-empty value of key or def.
func (e Env) Get(key, def string) string {
	if e.Lookup == nil {
		return def
	}
	if v, ok := e.Lookup(key); ok && v != "" {
		return v
	}
	return def
}
