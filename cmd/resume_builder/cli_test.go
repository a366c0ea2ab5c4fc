package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	binaryPath := getBinaryPath(t)
	contentPath := writeSampleContent(t)

	cmd := exec.Command(binaryPath, "validate", contentPath)
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "Valid resume content")
}

func TestValidateCommand_Invalid(t *testing.T) {
	binaryPath := getBinaryPath(t)
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"header": {"first_name": "Ada"}}`), 0644))

	cmd := exec.Command(binaryPath, "validate", path)
	output, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitLoad, exitErr.ExitCode())
	assert.Contains(t, string(output), "load error")
}

func TestValidateCommand_PrintSchema(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "validate", "--print-schema").Output()
	require.NoError(t, err)
	assert.Contains(t, string(output), `"header"`)
}

func TestRenderCommand_WritesSource(t *testing.T) {
	binaryPath := getBinaryPath(t)
	outDir := filepath.Join(t.TempDir(), "out")

	cmd := exec.Command(binaryPath, "render",
		"--content", writeSampleContent(t),
		"--out", outDir,
		"--select", "experiences=1")
	cmd.Env = append(os.Environ(), "DATABASE_URL=")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	source, err := os.ReadFile(filepath.Join(outDir, "resume.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(source), "Analytical Engines")
	assert.NotContains(t, string(source), "Royal Society")
	assert.NoFileExists(t, filepath.Join(outDir, "resume.pdf"))
}

func TestRenderCommand_Stdout(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render", "--content", writeSampleContent(t), "--stdout", "--select", "projects=0")
	output, err := cmd.Output()
	require.NoError(t, err)

	assert.Contains(t, string(output), `\documentclass{resume}`)
	assert.NotContains(t, string(output), "Note G")
}

func TestBuildCommand_MissingContent(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "build").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "--content is required")
}

func TestBuildCommand_FakeCompiler(t *testing.T) {
	binaryPath := getBinaryPath(t)
	outDir := t.TempDir()
	compiler := writeFakeCompiler(t, `echo "fake run"; echo "%PDF-1.4" > "$4/resume.pdf"`)

	cmd := exec.Command(binaryPath, "build",
		"--content", writeSampleContent(t),
		"--out", outDir,
		"--compiler", compiler)
	cmd.Env = append(os.Environ(), "DATABASE_URL=")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	assert.Contains(t, string(output), "Successfully compiled resume")
	assert.FileExists(t, filepath.Join(outDir, "resume.pdf"))
	assert.NoFileExists(t, filepath.Join(outDir, "resume.cls"))
}

func TestBuildCommand_CompileFailure(t *testing.T) {
	binaryPath := getBinaryPath(t)
	outDir := t.TempDir()
	compiler := writeFakeCompiler(t, `echo "! Undefined control sequence."; exit 1`)

	cmd := exec.Command(binaryPath, "build",
		"--content", writeSampleContent(t),
		"--out", outDir,
		"--compiler", compiler)
	cmd.Env = append(os.Environ(), "DATABASE_URL=")
	output, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitCompile, exitErr.ExitCode())
	assert.Contains(t, string(output), "Undefined control sequence")
	assert.NoFileExists(t, filepath.Join(outDir, "resume.pdf"))
}

func TestRunsCommand_RequiresDatabase(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "runs", "list")
	cmd.Env = append(os.Environ(), "DATABASE_URL=")
	cmd.Dir = t.TempDir()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL")
}

func TestValidateCommand_ExtraSchema(t *testing.T) {
	binaryPath := getBinaryPath(t)
	schemaPath := filepath.Join(t.TempDir(), "strict.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{
		"type": "object",
		"required": ["certificates"]
	}`), 0644))

	output, err := exec.Command(binaryPath, "validate", "--schema", schemaPath, writeSampleContent(t)).CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "certificates")
}
