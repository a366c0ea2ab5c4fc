package config

import "os"

// Environment variables read by FromEnv
const (
	EnvDatabaseURL    = "DATABASE_URL"
	EnvCompiler       = "RESUME_BUILDER_COMPILER"
	EnvCompileTimeout = "RESUME_BUILDER_COMPILE_TIMEOUT"
	EnvOutputDir      = "RESUME_BUILDER_OUTPUT_DIR"
)

// FromEnv creates a configuration from environment variables. Unset
// variables leave the field empty so that MergeWithDefaults can fill it.
func FromEnv() Config {
	return Config{
		DatabaseURL:    os.Getenv(EnvDatabaseURL),
		Compiler:       os.Getenv(EnvCompiler),
		CompileTimeout: os.Getenv(EnvCompileTimeout),
		OutputDir:      os.Getenv(EnvOutputDir),
	}
}

// Resolve layers flag values over the config file over the environment over
// Defaults. file may be nil.
func Resolve(flags Config, file *Config) Config {
	merged := flags
	if file != nil {
		merged = merged.MergeWithDefaults(*file)
	}
	merged = merged.MergeWithDefaults(FromEnv())
	return merged.MergeWithDefaults(Defaults())
}
