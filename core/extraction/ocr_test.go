package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsOCR(t *testing.T) {
	tests := []struct {
		name      string
		pages     []string
		threshold int
		want      []int
	}{
		{name: "no pages", pages: nil, threshold: 10, want: []int{}},
		{name: "all text", pages: []string{"Chapter one: the cell", "Mitochondria everywhere"}, threshold: 10, want: []int{}},
		{name: "empty page", pages: []string{"Chapter one: the cell", "", "Summary of chapter"}, threshold: 10, want: []int{1}},
		{name: "whitespace only", pages: []string{"   \n\t  "}, threshold: 10, want: []int{0}},
		{name: "9 chars", pages: []string{"123456789"}, threshold: 10, want: []int{0}},
		{name: "10 chars", pages: []string{"1234567890"}, threshold: 10, want: []int{}},
		{name: "10 chars padded", pages: []string{"   1234567890   "}, threshold: 10, want: []int{}},
		{name: "runes not bytes", pages: []string{"élève été"}, threshold: 10, want: []int{0}},
		{name: "custom threshold", pages: []string{"short", "a bit longer"}, threshold: 6, want: []int{0}},
		{name: "zero threshold", pages: []string{""}, threshold: 0, want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsOCR(tt.pages, tt.threshold))
		})
	}
}
