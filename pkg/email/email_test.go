package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a@x.com", Normalize("  A@X.com "))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("jane@example.com"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("not-an-email"))
	assert.False(t, IsValid("Jane <jane@example.com>"))
}

func TestSynthesize(t *testing.T) {
	got := Synthesize("p999", "phone.peoplehub.local")
	assert.Equal(t, "p999@phone.peoplehub.local", got)
	assert.Contains(t, got, "p999")

	assert.Equal(t, "AbC999@phone.peoplehub.local", Synthesize("AbC999", "Phone.Peoplehub.Local"))
	assert.NotEqual(t, Synthesize("AbC999", "phone.peoplehub.local"), Synthesize("abc999", "phone.peoplehub.local"))
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"jane.doe@example.com": "Jane Doe",
		"bob@example.com":      "Bob",
		"mary-ann_lee@corp.io": "Mary Ann Lee",
		"...@example.com":      "Employee",
	}
	for in, want := range tests {
		assert.Equal(t, want, DisplayName(in), in)
	}
}
