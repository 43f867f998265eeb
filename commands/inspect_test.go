package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logflix/logflix/internal/core/model"
)

func TestOrderedKinds(t *testing.T) {
	tests := []struct {
		name     string
		counts   map[string]int
		expected []string
	}{
		{
			name:     "known kinds in canonical order",
			counts:   map[string]int{"m": 1, "i": 2, "o": 9},
			expected: []string{"o", "i", "m"},
		},
		{
			name:     "unknown kinds sorted after known",
			counts:   map[string]int{"r": 1, "o": 3, "a": 2},
			expected: []string{"o", "a", "r"},
		},
		{
			name:     "absent known kinds omitted",
			counts:   map[string]int{"i": 1},
			expected: []string{"i"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderedKinds(tt.counts))
		})
	}
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "output (o)", kindLabel(model.KindOutput))
	assert.Equal(t, "input (i)", kindLabel(model.KindInput))
	assert.Equal(t, "marker (m)", kindLabel(model.KindAnnotation))
	assert.Equal(t, "other (r)", kindLabel(model.KindResize))
	assert.Equal(t, "other (x)", kindLabel("x"))
}
