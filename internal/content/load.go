// Package content provides functionality to load and validate resume content files.
package content

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// fileContent mirrors the on-disk layout, which also accepts the
// professional_experience key used by older content files.
type fileContent struct {
	types.ResumeContent
	ProfessionalExperience []types.Experience `json:"professional_experience,omitempty"`
}

// Load reads a resume content file (JSON, or YAML by extension), validates it
// against the resume content schema and returns the typed record.
func Load(path string) (*types.ResumeContent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	return Parse(path, raw)
}

// Parse decodes content that has already been read. name is used for error
// messages and to pick the decoder from its extension.
func Parse(name string, raw []byte) (*types.ResumeContent, error) {
	if isYAML(name) {
		converted, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return nil, &LoadError{Path: name, Message: "failed to parse YAML", Cause: err}
		}
		raw = converted
	}

	var top any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &LoadError{Path: name, Message: "failed to parse JSON", Cause: err}
	}
	if _, ok := top.(map[string]any); !ok {
		return nil, &LoadError{Path: name, Message: "top-level structure must be an object"}
	}

	if err := schemas.ValidateResumeContent(raw); err != nil {
		return nil, &LoadError{Path: name, Message: "schema validation failed", Cause: err}
	}

	var fc fileContent
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return nil, &LoadError{Path: name, Message: "failed to decode content", Cause: err}
	}

	if fc.ProfessionalExperience != nil {
		if fc.Experiences != nil {
			return nil, &LoadError{Path: name, Message: "both 'experiences' and 'professional_experience' are set"}
		}
		fc.Experiences = fc.ProfessionalExperience
	}

	content := fc.ResumeContent
	if err := content.Header.Validate(); err != nil {
		return nil, &LoadError{Path: name, Message: "invalid header", Cause: err}
	}

	return &content, nil
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
