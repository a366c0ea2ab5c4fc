// Package compile runs the external LaTeX compiler on a rendered document.
package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBinary is the compiler used when Compiler.Binary is empty
	DefaultBinary = "pdflatex"
	// DefaultTimeout is the maximum time to wait for LaTeX compilation
	DefaultTimeout = 30 * time.Second
	// DefaultBaseName names the .tex source and the .pdf artifact
	DefaultBaseName = "resume"

	// waitDelay bounds how long Wait blocks on output pipes after the
	// process group has been killed.
	waitDelay = 2 * time.Second
)

// intermediateExts are compiler by-products removed after a run
var intermediateExts = []string{".aux", ".log", ".out"}

// Compiler writes LaTeX source to an output directory and turns it into a PDF.
// The zero value compiles with pdflatex, a 30 second timeout and cleanup of
// intermediate files.
type Compiler struct {
	// Binary is the compiler executable, looked up in PATH
	Binary string
	// Timeout bounds a single compiler run
	Timeout time.Duration
	// BaseName is the file name, without extension, of the source and artifact
	BaseName string
	// Assets are extra files (e.g. the document class) written next to the
	// source before compiling. They are removed with the intermediates.
	Assets map[string][]byte
	// KeepIntermediates leaves .aux, .log, .out and asset files in place
	KeepIntermediates bool
	Logger            *zap.Logger
}

// Result describes a successful compilation
type Result struct {
	SourcePath   string
	ArtifactPath string
	Log          string
	Duration     time.Duration
}

func (c *Compiler) binary() string {
	if c.Binary == "" {
		return DefaultBinary
	}
	return c.Binary
}

func (c *Compiler) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Compiler) baseName() string {
	if c.BaseName == "" {
		return DefaultBaseName
	}
	return c.BaseName
}

func (c *Compiler) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// SourcePath returns where the .tex file for outDir is written
func (c *Compiler) SourcePath(outDir string) string {
	return filepath.Join(outDir, c.baseName()+".tex")
}

// ArtifactPath returns where the compiled PDF for outDir is produced
func (c *Compiler) ArtifactPath(outDir string) string {
	return filepath.Join(outDir, c.baseName()+".pdf")
}

// WriteSource creates outDir and writes the .tex source into it.
// It returns the path of the written file.
func (c *Compiler) WriteSource(source, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", &IOError{Path: outDir, Message: "failed to create output directory", Cause: err}
	}

	texPath := c.SourcePath(outDir)
	if err := os.WriteFile(texPath, []byte(source), 0644); err != nil {
		return "", &IOError{Path: texPath, Message: "failed to write LaTeX source", Cause: err}
	}
	return texPath, nil
}

// Compile writes source to outDir and runs the compiler on it. Any PDF left
// from an earlier run is removed first, so on failure no artifact remains.
func (c *Compiler) Compile(ctx context.Context, source, outDir string) (*Result, error) {
	log := c.logger()

	absDir, err := filepath.Abs(outDir)
	if err != nil {
		return nil, &IOError{Path: outDir, Message: "failed to resolve output directory", Cause: err}
	}

	texPath, err := c.WriteSource(source, absDir)
	if err != nil {
		return nil, err
	}
	if !c.KeepIntermediates {
		defer c.cleanup(absDir)
	}

	for name, data := range c.Assets {
		assetPath := filepath.Join(absDir, name)
		if err := os.WriteFile(assetPath, data, 0644); err != nil {
			return nil, &IOError{Path: assetPath, Message: "failed to write asset", Cause: err}
		}
	}

	pdfPath := c.ArtifactPath(absDir)
	if err := removeIfExists(pdfPath); err != nil {
		return nil, &IOError{Path: pdfPath, Message: "failed to remove stale PDF", Cause: err}
	}

	bin, err := exec.LookPath(c.binary())
	if err != nil {
		return nil, &CompileError{
			Message:  fmt.Sprintf("%s not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)", c.binary()),
			ExitCode: -1,
			Cause:    err,
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	cmd := exec.CommandContext(runCtx, bin,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", absDir,
		texPath,
	)
	cmd.Dir = absDir
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("running compiler",
		zap.String("binary", bin),
		zap.String("source", texPath),
		zap.Duration("timeout", c.timeout()))

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	logOutput := stdout.String() + stderr.String()

	if runErr != nil {
		c.discard(pdfPath)
		return nil, c.runError(ctx, runCtx, runErr, logOutput)
	}

	if _, err := os.Stat(pdfPath); err != nil {
		return nil, &CompileError{
			Message: "LaTeX compilation failed: PDF was not generated",
			Log:     logOutput,
			Cause:   err,
		}
	}

	log.Debug("compiler finished",
		zap.String("artifact", pdfPath),
		zap.Duration("elapsed", elapsed))

	return &Result{
		SourcePath:   texPath,
		ArtifactPath: pdfPath,
		Log:          logOutput,
		Duration:     elapsed,
	}, nil
}

// runError classifies a failed run. Timeouts are only reported as such when
// the deadline belongs to this run rather than the caller's context.
func (c *Compiler) runError(parent, runCtx context.Context, runErr error, logOutput string) error {
	if parent.Err() != nil {
		return &CompileError{
			Message:  "compilation canceled",
			Log:      logOutput,
			ExitCode: -1,
			Cause:    parent.Err(),
		}
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return &CompileError{
			Message:  fmt.Sprintf("compiler did not finish within %s", c.timeout()),
			Log:      logOutput,
			ExitCode: -1,
			TimedOut: true,
			Cause:    runCtx.Err(),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return &CompileError{
			Message:  fmt.Sprintf("compiler exited with status %d", exitErr.ExitCode()),
			Log:      logOutput,
			ExitCode: exitErr.ExitCode(),
			Cause:    runErr,
		}
	}

	return &CompileError{
		Message:  "failed to run compiler",
		Log:      logOutput,
		ExitCode: -1,
		Cause:    runErr,
	}
}

// discard removes a partial artifact after a failed run
func (c *Compiler) discard(pdfPath string) {
	if err := removeIfExists(pdfPath); err != nil {
		c.logger().Warn("failed to remove partial PDF", zap.String("path", pdfPath), zap.Error(err))
	}
}

// cleanup removes intermediate files. Failures are logged and never returned.
func (c *Compiler) cleanup(outDir string) {
	paths := make([]string, 0, len(intermediateExts)+len(c.Assets))
	for _, ext := range intermediateExts {
		paths = append(paths, filepath.Join(outDir, c.baseName()+ext))
	}
	for name := range c.Assets {
		paths = append(paths, filepath.Join(outDir, name))
	}

	for _, p := range paths {
		if err := removeIfExists(p); err != nil {
			c.logger().Warn("failed to remove intermediate file", zap.String("path", p), zap.Error(err))
		}
	}
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
