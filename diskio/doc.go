// Package diskio provides a high-throughput asynchronous block reader for
// fetching posting lists and candidate vectors from SSD during search.
//
// A Reader owns an unbuffered file handle, a pool of per-request resources,
// and a set of completion workers. Callers submit aligned block reads with
// ReadAsync and receive exactly one callback per accepted submission, on an
// arbitrary worker goroutine:
//
//	r, _ := diskio.Open("postings.bin")
//	defer r.Shutdown()
//
//	buf := diskio.AlignedBlock(4096, r.SectorSize())
//	ok := r.ReadAsync(diskio.AsyncReadRequest{
//		Offset: 8192,
//		Size:   4096,
//		Buffer: buf,
//		Callback: func(ok bool) { /* buf is filled when ok */ },
//	})
//
// Offset, size, and buffer address must all be aligned to SectorSize().
// The buffer and callback must stay live until the callback fires.
// Completion order is unrelated to submission order.
//
// The reader supports no per-request cancellation or timeouts; Shutdown
// terminates outstanding work without firing the pending callbacks.
package diskio
