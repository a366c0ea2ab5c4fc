package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"

	"github.com/jonathan/resume-builder/internal/config"
)

// TestMain loads .env for the run store tests and drops the compiler and
// output overrides so they cannot change what the CLI tests build.
func TestMain(m *testing.M) {
	_ = godotenv.Load()

	for _, key := range []string{config.EnvCompiler, config.EnvCompileTimeout, config.EnvOutputDir} {
		_ = os.Unsetenv(key)
	}

	os.Exit(m.Run())
}
