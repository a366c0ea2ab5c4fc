package types

import "fmt"

// Category names a selectable resume section
type Category string

// Selectable categories, in the order they are rendered
const (
	CategoryExperiences  Category = "experiences"
	CategoryEducation    Category = "education"
	CategoryProjects     Category = "projects"
	CategoryCertificates Category = "certificates"
)

// Categories lists every selectable category in render order
func Categories() []Category {
	return []Category{CategoryExperiences, CategoryEducation, CategoryProjects, CategoryCertificates}
}

// ParseCategory maps a category name to a Category
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// SelectionRequest maps a category to the number of entries to keep.
// A category without a key keeps every entry.
type SelectionRequest map[Category]int

// Selected holds the content chosen for one rendering
type Selected struct {
	Header       Header
	Experiences  []Experience
	Education    []Education
	Projects     []Project
	Certificates []Certificate
	Skills       []SkillGroup
	Interests    []Interest
}

// Count returns how many entries were selected for a category
func (s *Selected) Count(c Category) int {
	switch c {
	case CategoryExperiences:
		return len(s.Experiences)
	case CategoryEducation:
		return len(s.Education)
	case CategoryProjects:
		return len(s.Projects)
	case CategoryCertificates:
		return len(s.Certificates)
	}
	return 0
}

// RenderedDocument is the assembled document source and where it ended up
type RenderedDocument struct {
	Source       string `json:"source"`
	SourcePath   string `json:"source_path,omitempty"`
	ArtifactPath string `json:"artifact_path,omitempty"`
}
