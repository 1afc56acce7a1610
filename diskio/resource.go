package diskio

import (
	"sync/atomic"
)

// AsyncReadRequest describes one block read. The buffer is caller-owned and
// must outlive the completion callback; the reader never frees or retains
// it past the callback.
type AsyncReadRequest struct {
	// Offset is the file position to read from, in bytes. Must be a
	// multiple of the disk sector size.
	Offset int64

	// Size is the number of bytes to read. Must be a positive multiple of
	// the disk sector size, no larger than the reader's max IO size, and
	// no larger than len(Buffer).
	Size uint64

	// Buffer receives the data. Its address must be sector-aligned; see
	// AlignedBlock.
	Buffer []byte

	// Callback is invoked exactly once per accepted submission, with true
	// on a full read and false on an IO error. It runs on an arbitrary
	// worker goroutine and must be safe to call from any of them. May be
	// nil.
	Callback func(ok bool)
}

// readResource is the per-request record cycled through the resource pool.
// It carries the request across the completion mechanism the way the
// overlapped structure does on completion-port systems.
type readResource struct {
	req AsyncReadRequest
}

// poolCapacity bounds the resource pool. Misses allocate a fresh resource,
// so submission never fails for lack of a pooled one.
const poolCapacity = 128

// warmupResources is how many resources are cycled through the pool at
// startup to amortize first-use allocation latency.
const warmupResources = 64 * 64

// resourcePool is a bounded lock-free LIFO of readResources shared by all
// submitters and workers.
type resourcePool struct {
	head     atomic.Pointer[poolNode]
	size     atomic.Int32
	capacity int32
}

type poolNode struct {
	res  *readResource
	next *poolNode
}

func newResourcePool(capacity int32) *resourcePool {
	return &resourcePool{capacity: capacity}
}

// get pops a resource, reporting whether the pool supplied it. On a miss
// the caller receives a freshly allocated resource.
func (p *resourcePool) get() (*readResource, bool) {
	for {
		n := p.head.Load()
		if n == nil {
			return &readResource{}, false
		}
		if p.head.CompareAndSwap(n, n.next) {
			p.size.Add(-1)
			return n.res, true
		}
	}
}

// put returns a resource to the pool. When the pool is at capacity the
// resource is dropped and false is returned.
func (p *resourcePool) put(res *readResource) bool {
	if res == nil {
		return false
	}

	// Reserve a slot first so the pool never exceeds its capacity.
	for {
		n := p.size.Load()
		if n >= p.capacity {
			return false
		}
		if p.size.CompareAndSwap(n, n+1) {
			break
		}
	}

	node := &poolNode{res: res}
	for {
		head := p.head.Load()
		node.next = head
		if p.head.CompareAndSwap(head, node) {
			return true
		}
	}
}

// drain empties the pool and returns how many resources it held.
func (p *resourcePool) drain() int {
	freed := 0
	for {
		if _, ok := p.get(); !ok {
			return freed
		}
		freed++
	}
}
