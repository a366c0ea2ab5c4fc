// Package selection picks which resume entries make it into a rendering.
package selection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Apply returns, for every selectable category, the first min(count, len)
// entries in input order. Categories missing from req keep every entry and
// negative counts are treated as zero. Skills and interests are always kept
// in full. The result shares no slices with content.
func Apply(content *types.ResumeContent, req types.SelectionRequest) *types.Selected {
	if content == nil {
		return &types.Selected{}
	}

	return &types.Selected{
		Header:       content.Header,
		Experiences:  takeFirst(content.Experiences, limit(req, types.CategoryExperiences, len(content.Experiences))),
		Education:    takeFirst(content.Education, limit(req, types.CategoryEducation, len(content.Education))),
		Projects:     takeFirst(content.Projects, limit(req, types.CategoryProjects, len(content.Projects))),
		Certificates: takeFirst(content.Certificates, limit(req, types.CategoryCertificates, len(content.Certificates))),
		Skills:       takeFirst(content.Skills, len(content.Skills)),
		Interests:    takeFirst(content.Interests, len(content.Interests)),
	}
}

// Clamp bounds a requested count to [0, available]
func Clamp(count, available int) int {
	if count < 0 {
		return 0
	}
	if count > available {
		return available
	}
	return count
}

func limit(req types.SelectionRequest, c types.Category, available int) int {
	count, ok := req[c]
	if !ok {
		return available
	}
	return Clamp(count, available)
}

func takeFirst[T any](entries []T, n int) []T {
	out := make([]T, n)
	copy(out, entries[:n])
	return out
}

// ParseRequest parses "category=count" pairs, e.g. "experiences=3,projects=0".
// An empty string yields an empty request (keep everything).
func ParseRequest(spec string) (types.SelectionRequest, error) {
	req := types.SelectionRequest{}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return req, nil
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, &RequestError{Part: part, Message: "expected category=count"}
		}

		category, err := types.ParseCategory(strings.TrimSpace(name))
		if err != nil {
			return nil, &RequestError{Part: part, Message: "unknown category", Cause: err}
		}

		count, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, &RequestError{Part: part, Message: "invalid count", Cause: err}
		}
		if count < 0 {
			return nil, &RequestError{Part: part, Message: "count must be non-negative"}
		}
		req[category] = count
	}

	return req, nil
}

// FormatRequest is the inverse of ParseRequest, with categories in render order
func FormatRequest(req types.SelectionRequest) string {
	parts := make([]string, 0, len(req))
	order := make(map[types.Category]int)
	for i, c := range types.Categories() {
		order[c] = i
	}
	keys := make([]types.Category, 0, len(req))
	for c := range req {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		if order[keys[i]] != order[keys[j]] {
			return order[keys[i]] < order[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, c := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", c, req[c]))
	}
	return strings.Join(parts, ",")
}
