package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(24)
	b := GenerateRandByteArray(24)
	assert.Len(t, a, 24)
	assert.Len(t, b, 24)
	assert.NotEqual(t, a, b)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)

	WipeByteArray(nil)
}

func TestAuthKeys_CoverEveryStorageKey(t *testing.T) {
	assert.ElementsMatch(t, []string{"userData", "token", "refreshToken"}, AuthKeys)
}
