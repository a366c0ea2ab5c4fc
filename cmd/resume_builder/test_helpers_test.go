package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the resume_builder binary for testing
func getBinaryPath(t *testing.T) string {
	t.Helper()
	binaryName := "resume_builder"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath, err := filepath.Abs(filepath.Join("..", "..", "bin", binaryName))
	if err != nil {
		t.Fatalf("failed to resolve binary path: %v", err)
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// writeFakeCompiler writes a shell script that stands in for pdflatex
func writeFakeCompiler(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-latex")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write fake compiler: %v", err)
	}
	return path
}

const sampleContent = `{
  "header": {
    "first_name": "Ada",
    "last_name": "Lovelace",
    "email": "ada@example.com",
    "phone": "555-0100",
    "location": "London"
  },
  "experiences": [
    {"company": "Analytical Engines", "role": "Engineer", "start_date": "1842", "bullets": ["Wrote the first program"]},
    {"company": "Royal Society", "role": "Fellow", "start_date": "1840", "end_date": "1842", "bullets": ["Translated notes"]}
  ],
  "projects": [
    {"name": "Note G", "bullets": ["Bernoulli numbers"]}
  ]
}`

func writeSampleContent(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.json")
	if err := os.WriteFile(path, []byte(sampleContent), 0644); err != nil {
		t.Fatalf("failed to write content: %v", err)
	}
	return path
}
