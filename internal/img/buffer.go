package img

import (
	"sync"
	"sync/atomic"
)

// dataBlock is the shared, reference-counted allocation behind forged
// images. Any number of images (views, quick copies) may reference one
// block; the block is freed exactly once, when the count reaches zero.
// Retain and release are safe to call concurrently from multiple
// goroutines; this is the only concurrency guarantee the core provides.
type dataBlock struct {
	bytes []byte
	free  func() // optional custom deallocator (external allocations)
	refs  atomic.Int32
	mu    sync.Mutex // for safe deallocation
}

// newDataBlock allocates a zeroed block of the given byte size with
// refCount = 1.
func newDataBlock(size int) *dataBlock {
	db := &dataBlock{bytes: make([]byte, size)}
	db.refs.Store(1)
	return db
}

// newExternalBlock wraps an externally supplied buffer with refCount = 1.
// free, when non-nil, runs exactly once when the last reference drops.
func newExternalBlock(data []byte, free func()) *dataBlock {
	db := &dataBlock{bytes: data, free: free}
	db.refs.Store(1)
	return db
}

// retain increments the reference count.
func (db *dataBlock) retain() {
	db.refs.Add(1)
}

// release decrements the reference count and frees the block when it
// reaches zero. The atomic decrement guarantees exactly one caller sees
// zero, so the deallocator cannot run twice.
func (db *dataBlock) release() {
	if db.refs.Add(-1) == 0 {
		db.mu.Lock()
		defer db.mu.Unlock()
		if db.free != nil {
			db.free()
			db.free = nil
		}
		db.bytes = nil
	}
}

// shareCount returns the current number of references.
func (db *dataBlock) shareCount() int {
	return int(db.refs.Load())
}

// isUnique returns true if exactly one image references the block.
func (db *dataBlock) isUnique() bool {
	return db.refs.Load() == 1
}

// capacity returns the block's byte size.
func (db *dataBlock) capacity() int {
	return len(db.bytes)
}

// blockRef ties one image's reference on a data block to that image's
// lifetime. Strip releases it explicitly; a GC cleanup attached at forge
// time releases it when an image is dropped without Strip, so externally
// allocated memory is still returned. The Once makes the two paths race-free.
type blockRef struct {
	block *dataBlock
	once  sync.Once
}

func newBlockRef(db *dataBlock) *blockRef {
	return &blockRef{block: db}
}

// drop releases the underlying block reference, at most once.
func (ref *blockRef) drop() {
	ref.once.Do(ref.block.release)
}
