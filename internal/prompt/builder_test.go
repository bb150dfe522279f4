package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goldenspoon/internal/domain"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		question  string
		context   string
		directive string
		want      string
	}{
		{
			name:     "with context",
			question: "Do you deliver?",
			context:  "We deliver within 5 km.",
			want:     "Based on the following information: We deliver within 5 km.\n\nUser query: Do you deliver?",
		},
		{
			name:     "empty context",
			question: "Hello",
			want:     "Hello",
		},
		{
			name:      "directive with context",
			question:  "Do you deliver?",
			context:   "We deliver.",
			directive: domain.Hindi.Directive(),
			want:      "कृपया हिन्दी में उत्तर दें। Based on the following information: We deliver.\n\nUser query: Do you deliver?",
		},
		{
			name:      "directive without context",
			question:  "Hi",
			directive: domain.Hindi.Directive(),
			want:      "कृपया हिन्दी में उत्तर दें। Hi",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.question, tt.context, tt.directive))
		})
	}
}
