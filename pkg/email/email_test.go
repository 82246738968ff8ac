package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alice@example.com", Normalize("  Alice@Example.COM "))
	assert.Equal(t, "bob@example.com", Normalize("bob@example.com"))
}

func TestValid(t *testing.T) {
	valid := []string{"alice@example.com", "Bob@Example.com", "a.b+c@sub.example.org"}
	for _, addr := range valid {
		assert.True(t, Valid(addr), "expected %q to be valid", addr)
	}

	invalid := []string{"", "nope", "@example.com", "alice@", "Alice <alice@example.com>"}
	for _, addr := range invalid {
		assert.False(t, Valid(addr), "expected %q to be invalid", addr)
	}
}
