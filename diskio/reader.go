package diskio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/PhilipBAdams/SPTAG/internal/mem"
)

// Reader states. All read operations fail outside stateReady.
const (
	stateUninitialized int32 = iota
	stateReady
	stateClosed
)

// Reader dispatches many concurrent aligned block reads against one file
// and invokes a caller-supplied callback on each completion. It is
// optimized for small random reads of fixed-size blocks from SSD.
//
// ReadAsync may be called concurrently from many goroutines. Completion
// order is unrelated to submission order, and callbacks run on worker
// goroutines.
type Reader struct {
	state atomic.Int32

	fd         int
	direct     bool
	sectorSize uint32

	maxIOSize    uint64
	readRetries  uint32
	writeRetries uint32

	queue chan *readResource
	quit  chan struct{}
	wg    sync.WaitGroup

	pool    *resourcePool
	metrics *readerMetrics
	logger  *slog.Logger

	shutdownOnce sync.Once
}

// Open opens path for unbuffered reads, starts the completion workers, and
// warms the resource pool. The returned Reader is ready for submissions.
func Open(path string, optFns ...Option) (*Reader, error) {
	o := applyOptions(optFns)

	fd, direct, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	pool := newResourcePool(poolCapacity)

	r := &Reader{
		fd:           fd,
		direct:       direct,
		sectorSize:   fileSectorSize(fd),
		maxIOSize:    o.maxIOSize,
		readRetries:  o.readRetries,
		writeRetries: o.writeRetries,
		queue:        make(chan *readResource, o.queueDepth),
		quit:         make(chan struct{}),
		pool:         pool,
		metrics:      newReaderMetrics(o.registerer, pool),
		logger:       o.logger,
	}
	r.state.Store(stateReady)

	r.wg.Add(o.threadPoolSize)
	for i := 0; i < o.threadPoolSize; i++ {
		go r.completionLoop()
	}

	r.warmPool()

	r.logger.Info("opened file for async reads",
		"path", path,
		"direct", direct,
		"sectorSize", r.sectorSize,
		"workers", o.threadPoolSize,
		"maxIOSize", o.maxIOSize,
		"readRetries", o.readRetries,
		"writeRetries", o.writeRetries,
	)
	return r, nil
}

// warmPool cycles a batch of resources through the pool so the first
// submissions after startup do not pay allocation latency.
func (r *Reader) warmPool() {
	resources := make([]*readResource, warmupResources)
	for i := range resources {
		res, _ := r.pool.get()
		resources[i] = res
	}
	for i, res := range resources {
		r.pool.put(res)
		resources[i] = nil
	}
}

// SectorSize returns the alignment unit requests must honor.
func (r *Reader) SectorSize() uint32 { return r.sectorSize }

// MaxReadRetries returns the retry budget advertised to index layers.
func (r *Reader) MaxReadRetries() uint32 { return r.readRetries }

// MaxWriteRetries returns the write retry budget advertised to index layers.
func (r *Reader) MaxWriteRetries() uint32 { return r.writeRetries }

// ReadAsync submits req and returns immediately. The return value reports
// only whether submission succeeded; the callback is invoked exactly once
// if and only if the submission was accepted.
func (r *Reader) ReadAsync(req AsyncReadRequest) bool {
	if r.state.Load() != stateReady || !r.validRequest(&req) {
		r.metrics.submitFailures.Inc()
		return false
	}

	res, hit := r.pool.get()
	if hit {
		r.metrics.poolHits.Inc()
	} else {
		r.metrics.poolMisses.Inc()
	}
	res.req = req

	select {
	case r.queue <- res:
		r.metrics.readsSubmitted.Inc()
		return true
	default:
		// Submission failed: release the borrowed resource without ever
		// invoking the callback.
		res.req = AsyncReadRequest{}
		r.pool.put(res)
		r.metrics.submitFailures.Inc()
		return false
	}
}

func (r *Reader) validRequest(req *AsyncReadRequest) bool {
	sector := uint64(r.sectorSize)

	if req.Size == 0 || req.Size > r.maxIOSize {
		return false
	}
	if req.Offset < 0 || uint64(req.Offset)%sector != 0 || req.Size%sector != 0 {
		return false
	}
	if uint64(len(req.Buffer)) < req.Size {
		return false
	}
	if uintptr(unsafe.Pointer(&req.Buffer[0]))%uintptr(sector) != 0 {
		return false
	}
	return true
}

// completionLoop is run by each worker. It blocks on the completion
// mechanism until shutdown closes it.
func (r *Reader) completionLoop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.quit:
			return
		default:
		}

		select {
		case <-r.quit:
			return
		case res := <-r.queue:
			if res == nil {
				return
			}
			r.complete(res)
		}
	}
}

// complete services one request: recover the request from the resource,
// return the resource to the pool, perform the read, then fire the
// callback.
func (r *Reader) complete(res *readResource) {
	req := res.req
	res.req = AsyncReadRequest{}
	r.pool.put(res)

	n, err := unix.Pread(r.fd, req.Buffer[:req.Size], req.Offset)
	ok := err == nil && n >= 0 && uint64(n) == req.Size
	if ok {
		r.metrics.readsCompleted.Inc()
	} else {
		r.metrics.readFailures.Inc()
		r.logger.Warn("async read failed",
			"offset", req.Offset,
			"size", req.Size,
			"read", n,
			"error", err,
		)
	}

	if req.Callback != nil {
		req.Callback(ok)
	}
}

// Read performs one blocking read by submitting it and waiting for its
// completion on the same mechanism. Returns the bytes read, or 0 on any
// failure.
func (r *Reader) Read(size uint64, buffer []byte, offset int64) uint64 {
	done := make(chan bool, 1)

	accepted := r.ReadAsync(AsyncReadRequest{
		Offset:   offset,
		Size:     size,
		Buffer:   buffer,
		Callback: func(ok bool) { done <- ok },
	})
	if !accepted {
		return 0
	}

	select {
	case ok := <-done:
		if ok {
			return size
		}
		return 0
	case <-r.quit:
		// Shut down while waiting; the pending callback will not fire.
		return 0
	}
}

// Write is not implemented in the core and always returns 0.
func (r *Reader) Write(size uint64, buffer []byte, offset int64) uint64 {
	return 0
}

// Shutdown closes the completion mechanism and the file, joins all
// workers, and drains the resource pool. Outstanding submissions are
// discarded without firing their callbacks. Idempotent.
func (r *Reader) Shutdown() {
	r.shutdownOnce.Do(func() {
		r.state.Store(stateClosed)
		close(r.quit)
		r.wg.Wait()

		if r.fd >= 0 {
			_ = unix.Close(r.fd)
			r.fd = -1
		}

		freed := r.pool.drain()
		r.logger.Info("reader shut down", "pooledResources", freed)
	})
}

// AlignedBlock allocates a buffer whose address is aligned for unbuffered
// reads with the given sector size.
func AlignedBlock(size int, sectorSize uint32) []byte {
	return mem.AllocAlignedTo(size, int(sectorSize))
}
