package vkframe

import (
	"testing"

	"github.com/celer/vkframe/present"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestCheckResult(t *testing.T) {
	require.NoError(t, checkResult("op", vk.Success))

	err := checkResult("queue present", vk.ErrorOutOfDate)
	require.True(t, errors.Is(err, present.ErrOutOfDate))
	require.True(t, present.IsStale(err))
	require.Contains(t, err.Error(), "queue present")

	err = checkResult("acquire next image", vk.Suboptimal)
	require.True(t, errors.Is(err, present.ErrSuboptimal))
	require.True(t, present.IsStale(err))

	err = checkResult("queue submit", vk.ErrorDeviceLost)
	require.Error(t, err)
	require.False(t, present.IsStale(err))
	var re *ResultError
	require.True(t, errors.As(err, &re))
	require.Equal(t, vk.ErrorDeviceLost, re.Result)
	require.Equal(t, "queue submit", re.Op)
	require.Contains(t, err.Error(), "queue submit")
}
