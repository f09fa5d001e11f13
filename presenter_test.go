package vkframe

import (
	"testing"

	"github.com/celer/vkframe/present"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestPresentErrorTagsStage(t *testing.T) {
	require.NoError(t, presentError(nil))

	err := presentError(checkResult("queue present", vk.ErrorSurfaceLost))
	var se *present.StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, present.StagePresent, se.Stage)
	var re *ResultError
	require.True(t, errors.As(err, &re))
	require.Equal(t, vk.ErrorSurfaceLost, re.Result)

	for _, res := range []vk.Result{vk.ErrorOutOfDate, vk.Suboptimal} {
		err := presentError(checkResult("queue present", res))
		require.True(t, present.IsStale(err))
		require.False(t, errors.As(err, &se))
	}
}

// nop stands in for every GPU object the frame loop owns.
type nop struct{}

func (nop) Destroy() {}
func (nop) Len() int { return 3 }

type nopSwapchain struct{ images int }

func (s nopSwapchain) Format() vk.Format   { return vk.FormatB8g8r8a8Unorm }
func (s nopSwapchain) Extent() vk.Extent2D { return vk.Extent2D{Width: 64, Height: 64} }
func (s nopSwapchain) Images() []present.Image {
	return make([]present.Image, s.images)
}
func (s nopSwapchain) Recreate(vk.Extent2D) (present.Swapchain, error) { return s, nil }
func (s nopSwapchain) Destroy()                                        {}

type nopFactory struct{}

func (nopFactory) BuildRenderPass(vk.Format) (present.RenderPass, error) { return nop{}, nil }
func (nopFactory) BuildFramebuffers(images []present.Image, _ present.RenderPass, _ vk.Extent2D) ([]present.Framebuffer, error) {
	fbs := make([]present.Framebuffer, len(images))
	for i := range fbs {
		fbs[i] = nop{}
	}
	return fbs, nil
}
func (nopFactory) BuildPipeline(_, _ present.Shader, _ present.RenderPass, _ vk.Viewport) (present.Pipeline, error) {
	return nop{}, nil
}
func (nopFactory) BuildCommandBuffers(_ present.Pipeline, fbs []present.Framebuffer, _ present.VertexBuffer) ([]present.CommandBuffer, error) {
	cbs := make([]present.CommandBuffer, len(fbs))
	for i := range cbs {
		cbs[i] = nop{}
	}
	return cbs, nil
}

type nopSurface struct{}

func (nopSurface) Extent() vk.Extent2D { return vk.Extent2D{Width: 64, Height: 64} }

type nopEvents struct{}

func (nopEvents) PollEvents() []present.Event { return nil }

type waitedFlush struct{ waits *int }

func (f waitedFlush) Wait() error {
	*f.waits++
	return nil
}

// lostSurfacePresenter fails presentation the way Presenter.Submit reports a
// lost surface.
type lostSurfacePresenter struct{ waits int }

func (p *lostSurfacePresenter) Acquire(present.Swapchain) (int, bool, error) { return 0, false, nil }
func (p *lostSurfacePresenter) Submit(present.Swapchain, int, present.CommandBuffer) (present.Flush, error) {
	return waitedFlush{waits: &p.waits}, presentError(checkResult("queue present", vk.ErrorSurfaceLost))
}

func TestLoopReportsPresentStage(t *testing.T) {
	m, err := present.NewManager(nopFactory{}, nopSurface{}, nopSwapchain{images: 2}, nop{}, nop{}, nop{})
	require.NoError(t, err)
	p := &lostSurfacePresenter{}
	loop := present.NewLoop(m, p, nopEvents{})

	_, err = loop.Step()
	var se *present.StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, present.StagePresent, se.Stage)
	require.Contains(t, err.Error(), "queue present")
	require.Equal(t, 1, p.waits)
	require.EqualValues(t, 0, loop.Frames())
}

func TestSemaphoreRingReusesPerImage(t *testing.T) {
	created := 0
	r := semaphoreRing{create: func() (*Semaphore, error) {
		created++
		return &Semaphore{}, nil
	}}

	a, err := r.get(0, 3)
	require.NoError(t, err)
	b, err := r.get(1, 3)
	require.NoError(t, err)
	require.NotSame(t, a, b)

	again, err := r.get(0, 3)
	require.NoError(t, err)
	require.Same(t, a, again)
	require.Equal(t, 2, created)
	require.Len(t, r.slots, 3)

	_, err = r.get(3, 3)
	require.ErrorContains(t, err, "out of range")
	_, err = r.get(-1, 3)
	require.Error(t, err)
	require.Equal(t, 2, created)
}

func TestSemaphoreRingCreateFailure(t *testing.T) {
	r := semaphoreRing{create: func() (*Semaphore, error) {
		return nil, errors.New("out of memory")
	}}
	_, err := r.get(0, 2)
	require.ErrorContains(t, err, "out of memory")
	require.Nil(t, r.slots[0])
}
