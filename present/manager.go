package present

import (
	"log"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// State of the swapchain lifecycle.
type State int

const (
	Live State = iota
	Invalidated
	Recreating
)

func (s State) String() string {
	switch s {
	case Live:
		return "live"
	case Invalidated:
		return "invalidated"
	case Recreating:
		return "recreating"
	}
	return "unknown"
}

// Generation is the resource set the frame loop submits against. A generation
// is never modified once it is current, rebuilds produce a new one.
type Generation struct {
	ID             uint64
	Swapchain      Swapchain
	Extent         vk.Extent2D
	Viewport       vk.Viewport
	RenderPass     RenderPass
	Pipeline       Pipeline
	Framebuffers   []Framebuffer
	CommandBuffers []CommandBuffer
}

// Manager owns the swapchain and everything built from it.
type Manager struct {
	factory Factory
	surface Surface

	vertexShader   Shader
	fragmentShader Shader
	vertexBuffer   VertexBuffer

	state   State
	current *Generation
}

// NewManager takes ownership of sc and builds the first generation for it.
func NewManager(factory Factory, surface Surface, sc Swapchain, vs, fs Shader, vb VertexBuffer) (*Manager, error) {
	m := &Manager{
		factory:        factory,
		surface:        surface,
		vertexShader:   vs,
		fragmentShader: fs,
		vertexBuffer:   vb,
	}

	rp, err := factory.BuildRenderPass(sc.Format())
	if err != nil {
		return nil, withStage(StageRenderPass, err)
	}

	gen := &Generation{
		ID:         1,
		Swapchain:  sc,
		Extent:     sc.Extent(),
		RenderPass: rp,
	}
	if err := m.build(gen, true); err != nil {
		rp.Destroy()
		return nil, err
	}

	m.current = gen
	m.state = Live
	return m, nil
}

// Current returns the live generation.
func (m *Manager) Current() *Generation {
	return m.current
}

func (m *Manager) State() State {
	return m.state
}

// Invalidate marks the swapchain as needing recreation.
func (m *Manager) Invalidate() {
	if m.state == Live {
		m.state = Invalidated
	}
}

// Recreate replaces the swapchain with one matching the surface's current
// extent and rebuilds framebuffers and command buffers for it. The viewport
// and pipeline are rebuilt when resized is set or the extent changed.
//
// ErrExtentNotSupported is returned as is and leaves the manager Invalidated
// so the caller can retry next iteration. Other failures are *StageError.
//
// The caller must guarantee no submission against the current generation is
// still executing.
func (m *Manager) Recreate(resized bool) error {
	if m.state == Recreating {
		return errors.New("swapchain recreation already in progress")
	}
	m.state = Recreating

	old := m.current
	extent := m.surface.Extent()

	sc, err := old.Swapchain.Recreate(extent)
	if err != nil {
		m.state = Invalidated
		if errors.Is(err, ErrExtentNotSupported) {
			log.Printf("swapchain extent %dx%d rejected, retrying", extent.Width, extent.Height)
			return err
		}
		return withStage(StageSwapchain, err)
	}

	next := &Generation{
		ID:         old.ID + 1,
		Swapchain:  sc,
		Extent:     sc.Extent(),
		Viewport:   old.Viewport,
		RenderPass: old.RenderPass,
		Pipeline:   old.Pipeline,
	}

	if sc.Format() != old.Swapchain.Format() {
		rp, err := m.factory.BuildRenderPass(sc.Format())
		if err != nil {
			sc.Destroy()
			m.state = Invalidated
			return withStage(StageRenderPass, err)
		}
		next.RenderPass = rp
		resized = true
	}

	if !SameExtent(next.Extent, old.Extent) {
		resized = true
	}

	if err := m.build(next, resized); err != nil {
		if next.RenderPass != old.RenderPass {
			next.RenderPass.Destroy()
		}
		sc.Destroy()
		m.state = Invalidated
		return err
	}

	m.retire(old, next)
	m.current = next
	m.state = Live

	log.Printf("swapchain generation %d: %dx%d, %d images", next.ID, next.Extent.Width, next.Extent.Height, len(next.Framebuffers))
	return nil
}

// build fills in framebuffers, the pipeline (when rebuildPipeline is set) and
// command buffers for gen. On failure everything it created is destroyed.
func (m *Manager) build(gen *Generation, rebuildPipeline bool) error {
	images := gen.Swapchain.Images()

	fbs, err := m.factory.BuildFramebuffers(images, gen.RenderPass, gen.Extent)
	if err != nil {
		return withStage(StageFramebuffer, err)
	}
	if len(fbs) != len(images) {
		destroyAll(fbs)
		return &StageError{Stage: StageFramebuffer, Err: errors.Errorf("built %d framebuffers for %d swapchain images", len(fbs), len(images))}
	}

	if rebuildPipeline {
		gen.Viewport = ViewportFor(gen.Extent)
		p, err := m.factory.BuildPipeline(m.vertexShader, m.fragmentShader, gen.RenderPass, gen.Viewport)
		if err != nil {
			destroyAll(fbs)
			return withStage(StagePipeline, err)
		}
		gen.Pipeline = p
	}

	cbs, err := m.factory.BuildCommandBuffers(gen.Pipeline, fbs, m.vertexBuffer)
	if err == nil && len(cbs) != len(fbs) {
		destroyAll(cbs)
		err = errors.Errorf("recorded %d command buffers for %d framebuffers", len(cbs), len(fbs))
	}
	if err != nil {
		destroyAll(fbs)
		if rebuildPipeline {
			gen.Pipeline.Destroy()
		}
		return withStage(StageCommandBuffer, err)
	}

	gen.Framebuffers = fbs
	gen.CommandBuffers = cbs
	return nil
}

// retire destroys the parts of old that next no longer references.
func (m *Manager) retire(old, next *Generation) {
	destroyAll(old.CommandBuffers)
	destroyAll(old.Framebuffers)
	if old.Pipeline != next.Pipeline {
		old.Pipeline.Destroy()
	}
	if old.RenderPass != next.RenderPass {
		old.RenderPass.Destroy()
	}
	old.Swapchain.Destroy()
}

// Destroy releases the current generation. Shaders and the vertex buffer
// belong to the caller.
func (m *Manager) Destroy() {
	if m.current == nil {
		return
	}
	g := m.current
	destroyAll(g.CommandBuffers)
	destroyAll(g.Framebuffers)
	g.Pipeline.Destroy()
	g.RenderPass.Destroy()
	g.Swapchain.Destroy()
	m.current = nil
}

// SameExtent compares the dimensions of two extents.
func SameExtent(a, b vk.Extent2D) bool {
	return a.Width == b.Width && a.Height == b.Height
}

func destroyAll[T Destroyer](list []T) {
	for _, d := range list {
		d.Destroy()
	}
}
