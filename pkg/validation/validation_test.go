package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.NoError(t, ValidateEmail("a.b+c@sub.domain.org"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("@example.com"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.io"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("a_b-c123"))

	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has spaces"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 51)))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret1"))

	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("a", 129)))
}

func TestValidateBoardID(t *testing.T) {
	assert.NoError(t, ValidateBoardID("board-1"))
	assert.NoError(t, ValidateBoardID("550e8400-e29b-41d4-a716-446655440000"))

	assert.Error(t, ValidateBoardID(""))
	assert.Error(t, ValidateBoardID("has spaces"))
	assert.Error(t, ValidateBoardID("semi;colon"))
	assert.Error(t, ValidateBoardID(strings.Repeat("a", 101)))
}

func TestValidateBoardName(t *testing.T) {
	assert.NoError(t, ValidateBoardName("Sprint Planning"))
	assert.NoError(t, ValidateBoardName("доска"))

	assert.Error(t, ValidateBoardName(""))
	assert.Error(t, ValidateBoardName("   "))
	assert.Error(t, ValidateBoardName(strings.Repeat("x", 101)))
}
