package vkframe

import (
	"github.com/pkg/errors"
)

// BufferResource is a buffer bound to a range of a BufferPool's memory.
type BufferResource struct {
	*Buffer
	Pool       *BufferPool
	Allocation *Allocation
}

// Bytes is the mapped memory backing the buffer. Writes are visible to the
// device without a flush since pools are host coherent.
func (r *BufferResource) Bytes() []byte {
	if r.Allocation == nil || r.Pool.mapped == nil {
		return nil
	}
	return r.Pool.mapped[r.Allocation.Offset : r.Allocation.Offset+r.Buffer.Size]
}

// Write copies data to the start of the buffer.
func (r *BufferResource) Write(data []byte) error {
	dst := r.Bytes()
	if dst == nil {
		return errors.New("write to freed buffer resource")
	}
	if len(data) > len(dst) {
		return errors.Errorf("write of %d bytes exceeds buffer of %d", len(data), len(dst))
	}
	copy(dst, data)
	return nil
}

// Free destroys the buffer and returns its range to the pool.
func (r *BufferResource) Free() {
	if r.Allocation == nil {
		return
	}
	r.Pool.Allocator.Free(r.Allocation)
	r.Allocation = nil
	delete(r.Pool.live, r)
	r.Buffer.Destroy()
}

func (r *BufferResource) Destroy() {
	r.Free()
}
