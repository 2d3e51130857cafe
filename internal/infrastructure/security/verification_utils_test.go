package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code, err := GenerateNumericCode(length)
		require.NoError(t, err)
		require.Len(t, code, length)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
		}
	}
}

func TestGenerateNumericCode_InvalidLength(t *testing.T) {
	_, err := GenerateNumericCode(0)
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	h := HashToken("1234")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("1234"))
	assert.NotEqual(t, h, HashToken("1235"))
}
