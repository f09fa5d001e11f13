package vkframe

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestValidateShaderCode(t *testing.T) {
	valid := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}
	require.NoError(t, ValidateShaderCode(valid))

	for name, code := range map[string][]byte{
		"empty":     nil,
		"unaligned": valid[:6],
		"magic":     {0x07, 0x23, 0x02, 0x03, 0, 0, 0, 0},
	} {
		t.Run(name, func(t *testing.T) {
			err := ValidateShaderCode(code)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidShader))
		})
	}
}

func TestSpirvWords(t *testing.T) {
	words := spirvWords([]byte{0x03, 0x02, 0x23, 0x07, 0x01, 0x00, 0x00, 0x00})
	require.Equal(t, []uint32{0x07230203, 1}, words)
}
