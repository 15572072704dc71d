package column

import "sync"

// AssemblyBuffer moves FlatBatch assembly off the consumer thread for
// throughput-critical flat-path columns: a producer goroutine keeps calling
// the underlying Iterator and publishing finished batches into a small
// bounded queue, while the consumer's spent buffers flow back through a
// recycling pool instead of being reallocated each round.
type AssemblyBuffer struct {
	queue   chan Batch
	recycle chan Page
	stop    chan struct{}

	mu   sync.Mutex
	err  error
	done bool
}

const assemblyQueueCapacity = 2

// NewAssemblyBuffer starts a producer goroutine pulling batches from it and
// publishing them to a bounded queue of capacity 2. The Iterator is owned
// exclusively by the producer goroutine from this point on; callers must
// not call it.NextBatch or it.Recycle directly once this returns.
func NewAssemblyBuffer(it *Iterator) *AssemblyBuffer {
	b := &AssemblyBuffer{
		queue:   make(chan Batch, assemblyQueueCapacity),
		recycle: make(chan Page, assemblyQueueCapacity+2),
		stop:    make(chan struct{}),
	}
	go b.run(it)
	return b
}

func (b *AssemblyBuffer) run(it *Iterator) {
	defer close(b.queue)
	for {
		select {
		case page := <-b.recycle:
			it.Recycle(page)
		default:
		}
		batch, err := it.NextBatch()
		if err != nil {
			b.finish(err)
			return
		}
		if batch.Records() == 0 {
			b.finish(nil)
			return
		}
		select {
		case b.queue <- batch:
		case <-b.stop:
			return
		}
	}
}

// Close stops the producer goroutine; a consumer that abandons the stream
// before exhaustion (e.g. Reader.Close) must call this to avoid leaking it.
func (b *AssemblyBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	b.done = true
	close(b.stop)
}

func (b *AssemblyBuffer) finish(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	b.done = true
	b.err = err
}

// AwaitNextBatch blocks until the next batch is ready, the stream is
// exhausted (Records() == 0), or the producer's error surfaces. Any batches
// already queued are drained before a stored error is returned.
func (b *AssemblyBuffer) AwaitNextBatch() (Batch, error) {
	batch, ok := <-b.queue
	if ok {
		return batch, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return &FlatBatch{RecordCount: 0}, nil
}

// Release returns a consumed FlatBatch's backing Page to the pool for reuse
// by the producer goroutine's next allocation. Call after the consumer is
// done reading batch's values. Non-blocking: a full recycle pool just drops
// the buffer and lets the next allocation happen normally.
func (b *AssemblyBuffer) Release(batch Batch) {
	fb, ok := batch.(*FlatBatch)
	if !ok {
		return
	}
	select {
	case b.recycle <- fb.Page:
	default:
	}
}
