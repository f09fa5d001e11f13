package present

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func requireConsistent(t *testing.T, g *Generation) {
	t.Helper()
	images := g.Swapchain.Images()
	require.Len(t, g.Framebuffers, len(images))
	require.Len(t, g.CommandBuffers, len(images))
	for i, cb := range g.CommandBuffers {
		fcb := cb.(*fakeCommandBuffer)
		require.Same(t, g.Framebuffers[i], fcb.framebuffer)
		require.Same(t, g.Pipeline, fcb.pipeline)
		require.Equal(t, i, fcb.framebuffer.image.index)
		require.Equal(t, g.Extent.Width, fcb.framebuffer.extent.Width)
		require.Equal(t, g.Extent.Height, fcb.framebuffer.extent.Height)
	}
}

func TestNewManagerBuildsFirstGeneration(t *testing.T) {
	f, err := newFixture(1024, 1024, 3)
	require.NoError(t, err)

	require.Equal(t, Live, f.manager.State())

	g := f.manager.Current()
	require.EqualValues(t, 1, g.ID)
	requireConsistent(t, g)

	p := g.Pipeline.(*fakePipeline)
	require.EqualValues(t, 1024, p.viewport.Width)
	require.EqualValues(t, 1024, p.viewport.Height)
	require.EqualValues(t, 1, p.viewport.MaxDepth)

	for _, cb := range g.CommandBuffers {
		require.Equal(t, 3, cb.(*fakeCommandBuffer).vertexCount)
	}
	require.Empty(t, f.backend.violations)
}

func TestRecreateFramebuffersTrackImageCount(t *testing.T) {
	f, err := newFixture(800, 600, 2)
	require.NoError(t, err)

	for _, images := range []int{3, 4, 2} {
		f.backend.imageCount = images
		f.backend.surfaceExtent = vk.Extent2D{Width: uint32(100 * images), Height: 300}
		f.manager.Invalidate()
		require.NoError(t, f.manager.Recreate(true))

		g := f.manager.Current()
		require.Len(t, g.Swapchain.Images(), images)
		requireConsistent(t, g)
		require.Equal(t, images, f.backend.live["framebuffer"])
		require.Equal(t, images, f.backend.live["commandbuffer"])
	}
	require.Empty(t, f.backend.violations)
}

func TestRecreateIsIdempotent(t *testing.T) {
	f, err := newFixture(640, 480, 3)
	require.NoError(t, err)
	first := f.manager.Current()

	require.NoError(t, f.manager.Recreate(false))
	once := map[string]int{}
	for k, v := range f.backend.live {
		once[k] = v
	}
	afterOnce := f.manager.Current()

	require.NoError(t, f.manager.Recreate(false))
	require.Equal(t, once, f.backend.live)

	g := f.manager.Current()
	require.EqualValues(t, 3, g.ID)
	require.True(t, SameExtent(afterOnce.Extent, g.Extent))
	require.Same(t, first.Pipeline, g.Pipeline)
	require.Same(t, first.RenderPass, g.RenderPass)
	require.Equal(t, 1, f.backend.live["swapchain"])
	require.Equal(t, 1, f.backend.live["pipeline"])
	requireConsistent(t, g)

	// command buffers reference the framebuffers, so they are always re-recorded
	require.NotSame(t, afterOnce.CommandBuffers[0], g.CommandBuffers[0])
	require.True(t, afterOnce.CommandBuffers[0].(*fakeCommandBuffer).destroyed)
	require.Empty(t, f.backend.violations)
}

func TestRecreateRejectedExtentIsTransient(t *testing.T) {
	f, err := newFixture(1024, 1024, 3)
	require.NoError(t, err)
	before := f.manager.Current()

	f.backend.rejectExtents = 1
	f.manager.Invalidate()
	err = f.manager.Recreate(true)
	require.True(t, errors.Is(err, ErrExtentNotSupported))

	var se *StageError
	require.False(t, errors.As(err, &se))
	require.Equal(t, Invalidated, f.manager.State())
	require.Same(t, before, f.manager.Current())
	require.False(t, before.Swapchain.(*fakeSwapchain).destroyed)

	require.NoError(t, f.manager.Recreate(true))
	require.Equal(t, Live, f.manager.State())
	require.EqualValues(t, 2, f.manager.Current().ID)
}

func TestRecreateZeroExtentIsTransient(t *testing.T) {
	f, err := newFixture(1024, 1024, 3)
	require.NoError(t, err)

	f.backend.surfaceExtent = vk.Extent2D{}
	err = f.manager.Recreate(true)
	require.True(t, errors.Is(err, ErrExtentNotSupported))
	require.Equal(t, Invalidated, f.manager.State())
}

func TestRecreateSwapchainFailureIsFatal(t *testing.T) {
	f, err := newFixture(1024, 1024, 3)
	require.NoError(t, err)

	f.backend.recreateErr = errors.New("device lost")
	err = f.manager.Recreate(false)
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StageSwapchain, se.Stage)
	require.Contains(t, err.Error(), "swapchain creation: device lost")
}

func TestRecreatePipelineFailureReleasesPartialBuild(t *testing.T) {
	f, err := newFixture(1024, 1024, 3)
	require.NoError(t, err)
	before := f.manager.Current()

	f.backend.surfaceExtent = vk.Extent2D{Width: 512, Height: 512}
	f.backend.pipelineErr = errors.New("unsupported viewport")
	err = f.manager.Recreate(true)

	var se *StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StagePipeline, se.Stage)

	require.Equal(t, 3, f.backend.live["framebuffer"])
	require.Equal(t, 3, f.backend.live["commandbuffer"])
	require.Equal(t, 1, f.backend.live["pipeline"])
	require.Equal(t, 1, f.backend.live["swapchain"])
	require.Same(t, before, f.manager.Current())
	require.Empty(t, f.backend.violations)
}

func TestRecreateResizeRebuildsPipeline(t *testing.T) {
	f, err := newFixture(1024, 1024, 3)
	require.NoError(t, err)
	old := f.manager.Current()

	f.backend.surfaceExtent = vk.Extent2D{Width: 512, Height: 768}
	f.manager.Invalidate()
	require.NoError(t, f.manager.Recreate(true))

	g := f.manager.Current()
	require.NotSame(t, old.Pipeline, g.Pipeline)
	require.True(t, old.Pipeline.(*fakePipeline).destroyed)
	require.True(t, old.Swapchain.(*fakeSwapchain).destroyed)
	require.EqualValues(t, 512, g.Viewport.Width)
	require.EqualValues(t, 768, g.Viewport.Height)
	require.Equal(t, g.Viewport, g.Pipeline.(*fakePipeline).viewport)
	requireConsistent(t, g)
}

func TestRecreateFormatChangeRebuildsRenderPass(t *testing.T) {
	f, err := newFixture(1024, 1024, 3)
	require.NoError(t, err)
	old := f.manager.Current()

	f.backend.format = vk.FormatR8g8b8a8Unorm
	require.NoError(t, f.manager.Recreate(false))

	g := f.manager.Current()
	require.NotSame(t, old.RenderPass, g.RenderPass)
	require.Equal(t, vk.FormatR8g8b8a8Unorm, g.RenderPass.(*fakeRenderPass).format)
	require.NotSame(t, old.Pipeline, g.Pipeline)
	require.Equal(t, 1, f.backend.live["renderpass"])
	require.Equal(t, 1, f.backend.live["pipeline"])
}

func TestManagerDestroyReleasesGeneration(t *testing.T) {
	f, err := newFixture(1024, 1024, 3)
	require.NoError(t, err)
	require.NoError(t, f.manager.Recreate(true))

	f.manager.Destroy()
	for _, kind := range []string{"swapchain", "renderpass", "framebuffer", "pipeline", "commandbuffer"} {
		require.Equal(t, 0, f.backend.live[kind], kind)
	}
	require.Equal(t, 2, f.backend.live["shader"])
	require.Nil(t, f.manager.Current())
	require.Empty(t, f.backend.violations)
}
