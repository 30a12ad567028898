package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads variables from .env files into the process environment.
// Variables already set in the environment are not overridden.
func LoadEnvFiles(filenames ...string) error {
	if len(filenames) == 0 {
		return nil
	}
	err := godotenv.Load(filenames...)
	if err != nil {
		return fmt.Errorf("failed to load env files %v: %w", filenames, err)
	}
	return nil
}

// ReadEnvFile parses a .env file without modifying the process environment.
func ReadEnvFile(filename string) (func(string) (string, bool), error) {
	vars, err := godotenv.Read(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", filename, err)
	}
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}, nil
}
