package shm

import (
	"sync/atomic"
	"unsafe"
)

// The helpers below operate on 4-byte aligned words inside a mapped region. mmap and
// MapViewOfFile return page-aligned memory, so any offset that is a multiple of 4 is safe.

// AtomicLoadUint32 loads a uint32 from shared memory atomically.
func AtomicLoadUint32(addr unsafe.Pointer) uint32 {
	return atomic.LoadUint32((*uint32)(addr))
}

// AtomicStoreUint32 stores a uint32 to shared memory atomically.
func AtomicStoreUint32(addr unsafe.Pointer, val uint32) {
	atomic.StoreUint32((*uint32)(addr), val)
}

// AtomicAddUint32 adds delta to a uint32 in shared memory and returns the new value.
func AtomicAddUint32(addr unsafe.Pointer, delta uint32) uint32 {
	return atomic.AddUint32((*uint32)(addr), delta)
}
