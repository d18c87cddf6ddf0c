package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"keeps order", []string{"user:a", "profile:a"}, []string{"user:a", "profile:a"}},
		{"drops duplicates", []string{"dashboard:stats", "user:a", "dashboard:stats"}, []string{"dashboard:stats", "user:a"}},
		{"trims and drops empty", []string{"  a ", "", "   ", "a"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.in))
		})
	}
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, SplitCSV(""))
	assert.Equal(t, []string{"attendance", "document"}, SplitCSV("attendance, document,attendance,"))
}
