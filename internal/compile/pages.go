package compile

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrPageCountUnavailable is returned when neither pdfinfo nor ghostscript
// can report a page count.
var ErrPageCountUnavailable = errors.New("failed to count PDF pages: neither pdfinfo nor ghostscript available")

// CountPages counts the pages of a PDF. It tries pdfinfo (poppler-utils)
// first, then falls back to ghostscript.
func CountPages(ctx context.Context, pdfPath string) (int, error) {
	if out, err := exec.CommandContext(ctx, "pdfinfo", pdfPath).Output(); err == nil {
		if count, err := parsePdfinfoPages(string(out)); err == nil {
			return count, nil
		}
	}

	script := fmt.Sprintf("(%s) (r) file runpdfbegin pdfpagecount = quit", postScriptString(pdfPath))
	if out, err := exec.CommandContext(ctx, "gs", "-q", "-dNODISPLAY", "-dNOSAFER", "-c", script).Output(); err == nil {
		if count, err := parseGhostscriptPages(string(out)); err == nil {
			return count, nil
		}
	}

	return 0, ErrPageCountUnavailable
}

// postScriptString escapes a value for use inside a PostScript ( ) string
func postScriptString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}

// parsePdfinfoPages extracts N from the "Pages: N" line of pdfinfo output
func parsePdfinfoPages(output string) (int, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			if count, err := strconv.Atoi(parts[1]); err == nil {
				return count, nil
			}
		}
	}
	return 0, fmt.Errorf("could not parse page count from pdfinfo output")
}

func parseGhostscriptPages(output string) (int, error) {
	trimmed := strings.TrimSpace(output)
	count, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("could not parse page count from ghostscript output: %s", trimmed)
	}
	return count, nil
}
