package vkframe

import (
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestVKRenderPassCreateInfo(t *testing.T) {
	info := VKRenderPassCreateInfo(vk.FormatB8g8r8a8Unorm, vk.ImageLayoutPresentSrc)

	require.EqualValues(t, 1, info.AttachmentCount)
	att := info.PAttachments[0]
	require.Equal(t, vk.FormatB8g8r8a8Unorm, att.Format)
	require.Equal(t, vk.AttachmentLoadOpClear, att.LoadOp)
	require.Equal(t, vk.AttachmentStoreOpStore, att.StoreOp)
	require.Equal(t, vk.ImageLayoutUndefined, att.InitialLayout)
	require.Equal(t, vk.ImageLayoutPresentSrc, att.FinalLayout)

	require.EqualValues(t, 1, info.SubpassCount)
	sub := info.PSubpasses[0]
	require.Equal(t, vk.PipelineBindPointGraphics, sub.PipelineBindPoint)
	require.EqualValues(t, 1, sub.ColorAttachmentCount)
	require.Equal(t, vk.ImageLayoutColorAttachmentOptimal, sub.PColorAttachments[0].Layout)
	require.Nil(t, sub.PDepthStencilAttachment)

	require.EqualValues(t, 1, info.DependencyCount)
	require.Equal(t, uint32(vk.SubpassExternal), info.PDependencies[0].SrcSubpass)
}

func TestVKRenderPassCreateInfoOffscreen(t *testing.T) {
	info := VKRenderPassCreateInfo(vk.FormatR8g8b8a8Unorm, vk.ImageLayoutColorAttachmentOptimal)
	require.Equal(t, vk.FormatR8g8b8a8Unorm, info.PAttachments[0].Format)
	require.Equal(t, vk.ImageLayoutColorAttachmentOptimal, info.PAttachments[0].FinalLayout)
}
