package present

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// fakeBackend stands in for the device, the window surface and the
// presentation engine. It counts live objects per kind so tests can check
// that rebuilds neither leak nor double free.
type fakeBackend struct {
	live    map[string]int
	created map[string]int

	surfaceExtent vk.Extent2D
	imageCount    int
	format        vk.Format

	// rejectExtents makes the next n recreations fail with ErrExtentNotSupported.
	rejectExtents int
	recreateErr   error
	recreations   int

	pipelineErr error

	violations []string
}

func newFakeBackend(width, height uint32, images int) *fakeBackend {
	return &fakeBackend{
		live:          map[string]int{},
		created:       map[string]int{},
		surfaceExtent: vk.Extent2D{Width: width, Height: height},
		imageCount:    images,
		format:        vk.FormatB8g8r8a8Unorm,
	}
}

func (b *fakeBackend) violate(format string, args ...interface{}) {
	b.violations = append(b.violations, fmt.Sprintf(format, args...))
}

type handle struct {
	backend   *fakeBackend
	kind      string
	destroyed bool
}

func (b *fakeBackend) handle(kind string) handle {
	b.live[kind]++
	b.created[kind]++
	return handle{backend: b, kind: kind}
}

func (h *handle) Destroy() {
	if h.destroyed {
		h.backend.violate("%s destroyed twice", h.kind)
		return
	}
	h.destroyed = true
	h.backend.live[h.kind]--
}

type fakeImage struct {
	index     int
	swapchain *fakeSwapchain
}

type fakeSwapchain struct {
	handle
	extent vk.Extent2D
	format vk.Format
	images []Image
}

func (b *fakeBackend) newSwapchain(extent vk.Extent2D) *fakeSwapchain {
	sc := &fakeSwapchain{
		handle: b.handle("swapchain"),
		extent: extent,
		format: b.format,
	}
	for i := 0; i < b.imageCount; i++ {
		sc.images = append(sc.images, fakeImage{index: i, swapchain: sc})
	}
	return sc
}

func (s *fakeSwapchain) Format() vk.Format   { return s.format }
func (s *fakeSwapchain) Extent() vk.Extent2D { return s.extent }
func (s *fakeSwapchain) Images() []Image     { return s.images }

func (s *fakeSwapchain) Recreate(extent vk.Extent2D) (Swapchain, error) {
	b := s.backend
	if s.destroyed {
		b.violate("recreate called on destroyed swapchain")
	}
	if b.recreateErr != nil {
		return nil, b.recreateErr
	}
	if b.rejectExtents > 0 || extent.Width == 0 || extent.Height == 0 {
		if b.rejectExtents > 0 {
			b.rejectExtents--
		}
		return nil, errors.Wrapf(ErrExtentNotSupported, "%dx%d", extent.Width, extent.Height)
	}
	b.recreations++
	return b.newSwapchain(extent), nil
}

type fakeSurface struct {
	backend *fakeBackend
}

func (s *fakeSurface) Extent() vk.Extent2D { return s.backend.surfaceExtent }

type fakeRenderPass struct {
	handle
	format vk.Format
}

type fakeFramebuffer struct {
	handle
	image      fakeImage
	renderPass *fakeRenderPass
	extent     vk.Extent2D
}

type fakePipeline struct {
	handle
	viewport vk.Viewport
}

type fakeCommandBuffer struct {
	handle
	pipeline     *fakePipeline
	framebuffer  *fakeFramebuffer
	vertexBuffer VertexBuffer
	vertexCount  int
}

type fakeShader struct {
	handle
}

type fakeVertexBuffer struct {
	n int
}

func (v *fakeVertexBuffer) Len() int { return v.n }

type fakeFactory struct {
	backend *fakeBackend
}

func (f *fakeFactory) BuildRenderPass(format vk.Format) (RenderPass, error) {
	return &fakeRenderPass{handle: f.backend.handle("renderpass"), format: format}, nil
}

func (f *fakeFactory) BuildFramebuffers(images []Image, rp RenderPass, extent vk.Extent2D) ([]Framebuffer, error) {
	ret := make([]Framebuffer, len(images))
	for i, img := range images {
		ret[i] = &fakeFramebuffer{
			handle:     f.backend.handle("framebuffer"),
			image:      img.(fakeImage),
			renderPass: rp.(*fakeRenderPass),
			extent:     extent,
		}
	}
	return ret, nil
}

func (f *fakeFactory) BuildPipeline(vs, fs Shader, rp RenderPass, viewport vk.Viewport) (Pipeline, error) {
	if f.backend.pipelineErr != nil {
		return nil, f.backend.pipelineErr
	}
	return &fakePipeline{handle: f.backend.handle("pipeline"), viewport: viewport}, nil
}

func (f *fakeFactory) BuildCommandBuffers(p Pipeline, fbs []Framebuffer, vb VertexBuffer) ([]CommandBuffer, error) {
	ret := make([]CommandBuffer, len(fbs))
	for i, fb := range fbs {
		ret[i] = &fakeCommandBuffer{
			handle:       f.backend.handle("commandbuffer"),
			pipeline:     p.(*fakePipeline),
			framebuffer:  fb.(*fakeFramebuffer),
			vertexBuffer: vb,
			vertexCount:  vb.Len(),
		}
	}
	return ret, nil
}

type acquireResult struct {
	suboptimal bool
	err        error
}

type fakePresenter struct {
	backend *fakeBackend

	acquireScript []acquireResult
	submitScript  []error
	waitScript    []error

	next int

	acquires  int
	submits   int
	presents  int
	waits     int
	submitted []*fakeCommandBuffer
}

func (p *fakePresenter) Acquire(sc Swapchain) (int, bool, error) {
	p.acquires++
	fsc := sc.(*fakeSwapchain)
	if fsc.destroyed {
		p.backend.violate("acquire on destroyed swapchain")
	}

	var res acquireResult
	if len(p.acquireScript) > 0 {
		res = p.acquireScript[0]
		p.acquireScript = p.acquireScript[1:]
	}
	if res.err != nil {
		return 0, false, res.err
	}

	index := p.next % len(fsc.images)
	p.next++
	return index, res.suboptimal, nil
}

func (p *fakePresenter) Submit(sc Swapchain, index int, cb CommandBuffer) (Flush, error) {
	p.submits++
	fsc := sc.(*fakeSwapchain)
	fcb := cb.(*fakeCommandBuffer)
	p.submitted = append(p.submitted, fcb)

	switch {
	case fcb.destroyed:
		p.backend.violate("submitted destroyed command buffer")
	case fcb.framebuffer.destroyed:
		p.backend.violate("submitted command buffer with retired framebuffer")
	case fcb.pipeline.destroyed:
		p.backend.violate("submitted command buffer with retired pipeline")
	case fcb.framebuffer.image.swapchain != fsc:
		p.backend.violate("command buffer recorded for another swapchain")
	case fcb.framebuffer.image.index != index:
		p.backend.violate("command buffer for image %d submitted for image %d", fcb.framebuffer.image.index, index)
	}

	var err error
	if len(p.submitScript) > 0 {
		err = p.submitScript[0]
		p.submitScript = p.submitScript[1:]
	}
	if err == nil || errors.Is(err, ErrSuboptimal) {
		p.presents++
	}
	return &fakeFlush{presenter: p}, err
}

type fakeFlush struct {
	presenter *fakePresenter
}

func (f *fakeFlush) Wait() error {
	p := f.presenter
	p.waits++
	if len(p.waitScript) > 0 {
		err := p.waitScript[0]
		p.waitScript = p.waitScript[1:]
		return err
	}
	return nil
}

type fakeEvents struct {
	batches [][]Event
	polls   int
}

func (e *fakeEvents) PollEvents() []Event {
	e.polls++
	if len(e.batches) == 0 {
		return nil
	}
	b := e.batches[0]
	e.batches = e.batches[1:]
	return b
}

// push queues a batch of events for the next poll, after any queued batches.
func (e *fakeEvents) push(evs ...Event) {
	e.batches = append(e.batches, evs)
}

type fixture struct {
	backend   *fakeBackend
	factory   *fakeFactory
	surface   *fakeSurface
	vs, fs    *fakeShader
	vb        *fakeVertexBuffer
	manager   *Manager
	presenter *fakePresenter
	events    *fakeEvents
	loop      *Loop
}

func newFixture(width, height uint32, images int) (*fixture, error) {
	b := newFakeBackend(width, height, images)
	f := &fixture{
		backend: b,
		factory: &fakeFactory{backend: b},
		surface: &fakeSurface{backend: b},
		vs:      &fakeShader{handle: b.handle("shader")},
		fs:      &fakeShader{handle: b.handle("shader")},
		vb:      &fakeVertexBuffer{n: 3},
		events:  &fakeEvents{},
	}
	f.presenter = &fakePresenter{backend: b}

	sc := b.newSwapchain(b.surfaceExtent)
	m, err := NewManager(f.factory, f.surface, sc, f.vs, f.fs, f.vb)
	if err != nil {
		return nil, err
	}
	f.manager = m
	f.loop = NewLoop(m, f.presenter, f.events)
	return f, nil
}
