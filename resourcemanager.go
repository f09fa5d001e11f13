package vkframe

import (
	"log"

	units "github.com/docker/go-units"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ErrPoolExhausted is returned when a pool has no gap left for a buffer.
var ErrPoolExhausted = errors.New("insufficient space in buffer pool")

// BufferPool hands out buffers bound to ranges of one host visible, coherent
// memory block. The block stays mapped for the lifetime of the pool.
type BufferPool struct {
	Device    *Device
	Name      string
	Usage     vk.BufferUsageFlags
	Size      uint64
	Allocator Allocator
	Memory    *DeviceMemory

	manager *ResourceManager
	mapped  []byte
	live    map[*BufferResource]struct{}
}

// AllocateBuffer creates a buffer of size bytes inside the pool. usage must be
// a subset of the pool's usage.
func (p *BufferPool) AllocateBuffer(size uint64, usage vk.BufferUsageFlags) (*BufferResource, error) {
	if usage&p.Usage != usage {
		return nil, errors.Errorf("pool %q does not allow buffer usage %#x", p.Name, usage)
	}
	buffer, err := p.Device.CreateBuffer(size, usage)
	if err != nil {
		return nil, err
	}

	ar := buffer.AllocationRequirements()
	if ar.MemoryTypeBits&(1<<p.Memory.TypeIndex) == 0 {
		buffer.Destroy()
		return nil, errors.Errorf("pool %q memory type not usable for buffer usage %#x", p.Name, usage)
	}

	allocation := p.Allocator.Allocate(ar.Size, ar.Alignment)
	if allocation == nil {
		buffer.Destroy()
		return nil, errors.Wrapf(ErrPoolExhausted, "pool %q: %d bytes", p.Name, ar.Size)
	}
	if err := buffer.Bind(p.Memory, allocation.Offset); err != nil {
		p.Allocator.Free(allocation)
		buffer.Destroy()
		return nil, err
	}

	r := &BufferResource{
		Buffer:     buffer,
		Pool:       p,
		Allocation: allocation,
	}
	p.live[r] = struct{}{}
	return r, nil
}

// Destroy frees every buffer still allocated from the pool and the memory
// backing it.
func (p *BufferPool) Destroy() {
	for r := range p.live {
		r.Free()
	}
	if p.Memory != nil {
		p.Memory.Destroy()
		p.Memory = nil
	}
	p.mapped = nil
	if p.manager != nil {
		delete(p.manager.pools, p.Name)
	}
}

// ResourceManager owns the named buffer pools of a device.
type ResourceManager struct {
	Device *Device
	pools  map[string]*BufferPool
}

func (d *Device) CreateResourceManager() *ResourceManager {
	return &ResourceManager{Device: d, pools: map[string]*BufferPool{}}
}

// AllocateHostPool creates a host visible pool of size bytes whose buffers
// may use any of usage.
func (r *ResourceManager) AllocateHostPool(name string, size uint64, usage vk.BufferUsageFlags) (*BufferPool, error) {
	if _, ok := r.pools[name]; ok {
		return nil, errors.Errorf("buffer pool %q already exists", name)
	}

	// a probe buffer tells us which memory types the usage accepts
	probe, err := r.Device.CreateBuffer(size, usage)
	if err != nil {
		return nil, err
	}
	ar := probe.AllocationRequirements()
	probe.Destroy()

	mem, err := r.Device.Allocate(size, ar.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, errors.Wrapf(err, "buffer pool %q", name)
	}
	mapped, err := mem.Map()
	if err != nil {
		mem.Destroy()
		return nil, err
	}

	p := &BufferPool{
		Device:    r.Device,
		Name:      name,
		Usage:     usage,
		Size:      size,
		Allocator: &PoolAllocator{Size: size, Align: ar.Alignment},
		Memory:    mem,
		manager:   r,
		mapped:    mapped,
		live:      map[*BufferResource]struct{}{},
	}
	r.pools[name] = p
	log.Printf("buffer pool %q: %s, memory type %d", name, units.BytesSize(float64(size)), mem.TypeIndex)
	return p, nil
}

func (r *ResourceManager) Pool(name string) *BufferPool {
	return r.pools[name]
}

func (r *ResourceManager) Destroy() {
	for _, p := range r.pools {
		p.Destroy()
	}
}
