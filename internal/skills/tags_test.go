package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to Go", "Golang", "Go"},
		{"GOLANG to Go", "GOLANG", "Go"},
		{"go lang to Go", "go lang", "Go"},
		{"JS to JavaScript", "js", "JavaScript"},
		{"K8s to Kubernetes", "k8s", "Kubernetes"},
		{"nodejs to Node.js", "nodejs", "Node.js"},
		{"postgres to PostgreSQL", " postgres ", "PostgreSQL"},
		{"Acronym keeps casing", "AWS", "AWS"},
		{"Unknown keeps casing", "python", "python"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"Multi-word stays as-is", "Distributed Systems", "Distributed Systems"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(tt.input))
		})
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"blank", "  ,  ", []string{}},
		{"single", "Python", []string{"Python"}},
		{"trims entries", "Python, JavaScript ,React", []string{"Python", "JavaScript", "React"}},
		{"drops empty entries", "Go,,  ,SQL", []string{"Go", "SQL"}},
		{"dedupes aliases", "golang, Go, GO", []string{"Go"}},
		{"dedupes ignoring case", "Docker, docker", []string{"Docker"}},
		{"keeps first position", "React, Go, reactjs", []string{"React", "Go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTags(tt.input))
		})
	}
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "Go, JavaScript", JoinTags([]string{"golang", " js", "Go"}))
	assert.Equal(t, "", JoinTags(nil))
}
