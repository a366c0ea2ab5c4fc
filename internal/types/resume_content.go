// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// ResumeContent is the in-memory form of a resume content file.
// Every list keeps the order given in the source file.
type ResumeContent struct {
	Header       Header        `json:"header" yaml:"header"`
	Experiences  []Experience  `json:"experiences,omitempty" yaml:"experiences,omitempty"`
	Education    []Education   `json:"education,omitempty" yaml:"education,omitempty"`
	Projects     []Project     `json:"projects,omitempty" yaml:"projects,omitempty"`
	Certificates []Certificate `json:"certificates,omitempty" yaml:"certificates,omitempty"`
	Skills       []SkillGroup  `json:"skills,omitempty" yaml:"skills,omitempty"`
	Interests    []Interest    `json:"interests,omitempty" yaml:"interests,omitempty"`
}

// Header holds the candidate's name and contact details
type Header struct {
	FirstName string `json:"first_name" yaml:"first_name" validate:"required"`
	LastName  string `json:"last_name" yaml:"last_name" validate:"required"`
	Email     string `json:"email" yaml:"email" validate:"required"`
	Phone     string `json:"phone" yaml:"phone" validate:"required"`
	Location  string `json:"location" yaml:"location" validate:"required"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Website   string `json:"website,omitempty" yaml:"website,omitempty"`
}

// FullName joins first and last name with a single space
func (h Header) FullName() string {
	if h.LastName == "" {
		return h.FirstName
	}
	if h.FirstName == "" {
		return h.LastName
	}
	return h.FirstName + " " + h.LastName
}

// Experience is one job. A nil EndDate means the role is ongoing.
type Experience struct {
	Role      string   `json:"role" yaml:"role"`
	Company   string   `json:"company,omitempty" yaml:"company,omitempty"`
	StartDate string   `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Location  string   `json:"location,omitempty" yaml:"location,omitempty"`
	Bullets   []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
	Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Education is one degree
type Education struct {
	Degree    string   `json:"degree" yaml:"degree"`
	Subject   string   `json:"subject,omitempty" yaml:"subject,omitempty"`
	School    string   `json:"school,omitempty" yaml:"school,omitempty"`
	StartYear int      `json:"start_year,omitempty" yaml:"start_year,omitempty"`
	EndYear   int      `json:"end_year,omitempty" yaml:"end_year,omitempty"`
	Location  string   `json:"location,omitempty" yaml:"location,omitempty"`
	Bullets   []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
}

// Project is a portfolio entry
type Project struct {
	Name    string   `json:"name" yaml:"name"`
	Bullets []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
	Link    string   `json:"link,omitempty" yaml:"link,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Certificate is a certification or credential
type Certificate struct {
	Name    string   `json:"name" yaml:"name"`
	Bullets []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
	Link    string   `json:"link,omitempty" yaml:"link,omitempty"`
}

// SkillGroup is a labelled list of skills, rendered as one table row
type SkillGroup struct {
	Category string   `json:"category" yaml:"category"`
	Items    []string `json:"items" yaml:"items"`
}

// Interest is a list of personal interests
type Interest struct {
	Items []string `json:"items" yaml:"items"`
}

// Validate checks the required header fields using the validator.
func (h *Header) Validate() error {
	validate := validator.New()
	return validate.Struct(h)
}
