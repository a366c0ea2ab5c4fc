package compile

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePdfinfoPages(t *testing.T) {
	output := "Title:          resume\nProducer:       pdfTeX-1.40.25\nPages:          2\nPage size:      612 x 792 pts (letter)\n"
	count, err := parsePdfinfoPages(output)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = parsePdfinfoPages("Title: resume\n")
	assert.Error(t, err)

	_, err = parsePdfinfoPages("Pages: many\n")
	assert.Error(t, err)
}

func TestParseGhostscriptPages(t *testing.T) {
	count, err := parseGhostscriptPages("  1\n")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = parseGhostscriptPages("Error: /undefinedfilename")
	assert.Error(t, err)
}

func TestCountPages_RealPDF(t *testing.T) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		t.Skip("pdflatex not available, cannot create test PDF")
	}
	_, errInfo := exec.LookPath("pdfinfo")
	_, errGS := exec.LookPath("gs")
	if errInfo != nil && errGS != nil {
		t.Skip("neither pdfinfo nor ghostscript available")
	}

	doc := "\\documentclass{article}\n\\begin{document}\nPage 1\n\\newpage\nPage 2\n\\end{document}\n"
	result, err := (&Compiler{}).Compile(context.Background(), doc, t.TempDir())
	require.NoError(t, err)

	count, err := CountPages(context.Background(), result.ArtifactPath)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCountPages_MissingFile(t *testing.T) {
	_, err := CountPages(context.Background(), "/nonexistent/resume.pdf")
	assert.ErrorIs(t, err, ErrPageCountUnavailable)
}

func TestPostScriptString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "/tmp/out/resume.pdf", "/tmp/out/resume.pdf"},
		{"parentheses", "/tmp/a (1)/resume.pdf", `/tmp/a \(1\)/resume.pdf`},
		{"backslash", `C:\out\resume.pdf`, `C:\\out\\resume.pdf`},
		{"closing paren first", "x) pop 7 = quit (", `x\) pop 7 = quit \(`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postScriptString(tt.in))
		})
	}
}

func TestCountPages_PathIsNotExecuted(t *testing.T) {
	if _, err := exec.LookPath("gs"); err != nil {
		t.Skip("ghostscript not available")
	}

	// Unescaped, this path would print 7 and quit before opening any file.
	path := filepath.Join(t.TempDir(), "x) pop 7 = quit (")

	count, err := CountPages(context.Background(), path)
	assert.ErrorIs(t, err, ErrPageCountUnavailable)
	assert.Zero(t, count)
}
