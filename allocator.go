package vkframe

import (
	"fmt"
	"sort"
)

// Allocation is a range handed out by an Allocator.
type Allocation struct {
	Offset uint64
	Size   uint64
}

func (a *Allocation) End() uint64 {
	return a.Offset + a.Size
}

func (a *Allocation) String() string {
	return fmt.Sprintf("[%d %d]", a.Offset, a.Size)
}

// Allocator sub-allocates ranges of a single device memory block. Vulkan caps
// the number of live allocations, so buffers share blocks.
type Allocator interface {
	// Allocate returns nil when no gap large enough is left.
	Allocate(size, align uint64) *Allocation
	Free(a *Allocation)
}

// PoolAllocator is a first-fit allocator over Size bytes. Allocations are
// kept sorted by offset.
type PoolAllocator struct {
	Size uint64
	// Align is the minimum alignment applied to every allocation, 0 means 1.
	Align uint64

	allocs []*Allocation
}

func alignUp(a, align uint64) uint64 {
	if align <= 1 {
		return a
	}
	if m := a % align; m != 0 {
		return a - m + align
	}
	return a
}

func (p *PoolAllocator) Allocate(size, align uint64) *Allocation {
	if size == 0 || size > p.Size {
		return nil
	}
	if align < p.Align {
		align = p.Align
	}

	var start uint64
	for i, a := range p.allocs {
		if a.Offset >= start && a.Offset-start >= size {
			return p.insert(i, start, size)
		}
		start = alignUp(a.End(), align)
	}
	if start <= p.Size && p.Size-start >= size {
		return p.insert(len(p.allocs), start, size)
	}
	return nil
}

func (p *PoolAllocator) insert(i int, offset, size uint64) *Allocation {
	na := &Allocation{Offset: offset, Size: size}
	p.allocs = append(p.allocs, nil)
	copy(p.allocs[i+1:], p.allocs[i:])
	p.allocs[i] = na
	return na
}

// Free releases fa. Freeing an allocation twice is a no-op.
func (p *PoolAllocator) Free(fa *Allocation) {
	i := sort.Search(len(p.allocs), func(i int) bool {
		return p.allocs[i].Offset >= fa.Offset
	})
	if i < len(p.allocs) && p.allocs[i] == fa {
		p.allocs = append(p.allocs[:i], p.allocs[i+1:]...)
	}
}

// Used is the number of bytes currently allocated, excluding padding.
func (p *PoolAllocator) Used() uint64 {
	var n uint64
	for _, a := range p.allocs {
		n += a.Size
	}
	return n
}

func (p *PoolAllocator) String() string {
	return fmt.Sprintf("%v", p.allocs)
}
