// Package skills turns the comma-delimited skill strings returned by the backend into
// display tags.
package skills

import (
	"strings"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
}

// NormalizeSkillName trims a skill name and maps known aliases to their canonical form.
// Unknown names keep their original casing so acronyms such as "AWS" survive.
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	if canonical, ok := skillNormalizations[strings.ToLower(normalized)]; ok {
		return canonical
	}
	return normalized
}

// ParseTags splits a comma-delimited skills string into an ordered set of tags.
// Empty entries are dropped and duplicates (after normalization, ignoring case) keep
// their first position.
func ParseTags(skillList string) []string {
	if strings.TrimSpace(skillList) == "" {
		return nil
	}

	parts := strings.Split(skillList, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		tag := NormalizeSkillName(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}

	return tags
}

// JoinTags is the inverse of ParseTags and produces the wire form of a skill list.
func JoinTags(tags []string) string {
	cleaned := ParseTags(strings.Join(tags, ","))
	return strings.Join(cleaned, ", ")
}
