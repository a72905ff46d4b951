package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "single element", input: []string{"foo"}, expected: []string{"foo"}},
		{name: "trims whitespace", input: []string{"  foo ", "bar"}, expected: []string{"foo", "bar"}},
		{name: "drops duplicates keeping order", input: []string{"b", "a", "b"}, expected: []string{"b", "a"}},
		{name: "drops empties", input: []string{"", "  ", "x"}, expected: []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
