package vkframe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	require.EqualValues(t, 12, alignUp(12, 3))
	require.EqualValues(t, 12, alignUp(10, 3))
	require.EqualValues(t, 10, alignUp(10, 0))
	require.EqualValues(t, 256, alignUp(1, 256))
}

func TestAllocator(t *testing.T) {
	a := PoolAllocator{Size: 1024, Align: 1}

	require.Nil(t, a.Allocate(2048, 1))

	first := a.Allocate(512, 1)
	require.NotNil(t, first)
	require.EqualValues(t, 0, first.Offset)

	require.Nil(t, a.Allocate(768, 1))

	k := a.Allocate(500, 1)
	require.NotNil(t, k)
	require.EqualValues(t, 512, k.Offset)

	require.Nil(t, a.Allocate(50, 1))
	require.NotNil(t, a.Allocate(5, 1))
	require.Nil(t, a.Allocate(20, 1))

	// an exact fit reuses the freed gap
	a.Free(k)
	again := a.Allocate(500, 1)
	require.NotNil(t, again)
	require.EqualValues(t, 512, again.Offset)

	a.Free(first)
	for _, size := range []uint64{20, 40, 12} {
		require.NotNil(t, a.Allocate(size, 1), "size %d", size)
	}
	require.Nil(t, a.Allocate(500, 1))
	require.NotNil(t, a.Allocate(5, 1))
	require.EqualValues(t, 20+40+12+5+500+5, a.Used())
}

func TestAllocatorAlignment(t *testing.T) {
	a := PoolAllocator{Size: 1024, Align: 64}

	x := a.Allocate(10, 0)
	y := a.Allocate(10, 0)
	z := a.Allocate(10, 256)
	require.EqualValues(t, 0, x.Offset)
	require.EqualValues(t, 64, y.Offset)
	require.EqualValues(t, 256, z.Offset)

	a.Free(y)
	w := a.Allocate(100, 0)
	require.EqualValues(t, 64, w.Offset)

	require.Nil(t, a.Allocate(768, 0))
	require.NotNil(t, a.Allocate(704, 0))
}

func TestAllocatorFreeTwice(t *testing.T) {
	a := PoolAllocator{Size: 100}
	x := a.Allocate(40, 1)
	y := a.Allocate(40, 1)
	a.Free(x)
	a.Free(x)
	require.EqualValues(t, 40, a.Used())
	require.Same(t, y, a.allocs[0])
	require.Nil(t, a.Allocate(0, 1))
}
