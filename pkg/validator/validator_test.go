package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("a@x.com"))
	assert.NoError(t, Email("first.last+tag@sub.example.org"))

	assert.Error(t, Email(""))
	assert.Error(t, Email("not-an-email"))
	assert.Error(t, Email("@missing-local.com"))
	assert.Error(t, Email("a@"+strings.Repeat("x", 260)+".com"))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("longenough1"))

	assert.Error(t, Password("short"))
	assert.Error(t, Password(strings.Repeat("p", 129)))
}

func TestUsername(t *testing.T) {
	assert.NoError(t, Username("alice"))
	assert.NoError(t, Username("alice.b-c_d9"))

	assert.Error(t, Username(""))
	assert.Error(t, Username("ab"))
	assert.Error(t, Username("has space"))
	assert.Error(t, Username(strings.Repeat("u", 65)))
}

func TestRole(t *testing.T) {
	assert.NoError(t, Role("STUDENT"))
	assert.Error(t, Role(""))
	assert.Error(t, Role("   "))
}

func TestName(t *testing.T) {
	assert.NoError(t, Name(""))
	assert.NoError(t, Name("Ada Lovelace"))

	assert.Error(t, Name("bad\x00name"))
	assert.Error(t, Name(strings.Repeat("n", 129)))
}

func TestBio(t *testing.T) {
	assert.NoError(t, Bio(""))
	assert.Error(t, Bio(strings.Repeat("b", 2049)))
}
