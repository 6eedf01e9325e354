package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID("conn")
	assert.True(t, strings.HasPrefix(id, "conn_"))

	// Two ids never collide in practice.
	assert.NotEqual(t, GenerateID("conn"), GenerateID("conn"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "hello", SanitizeString("hel\x00lo"))
	assert.Equal(t, "a\tb", SanitizeString("a\tb"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "long st...", TruncateString("long string here", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}
