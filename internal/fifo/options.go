package fifo

// Options configures queue creation.
type Options struct {
	singleProducer bool
	capacity       int
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// SPSC queue for an entrance FIFO (one arrival generator, one worker)
//	q := fifo.BuildSPSC[CarDescriptor](fifo.New(64).SingleProducer())
//
//	// MPSC queue for an exit FIFO (many per-car tasks, one exit worker)
//	q := fifo.BuildMPSC[CarDescriptor](fifo.New(64))
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// Capacity rounds up to the next power of 2. Panics if capacity < 2.
func New(capacity int) *Builder {
	if capacity < 2 {
		panic("fifo: capacity must be >= 2")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// SingleProducer declares that only one goroutine will enqueue.
// Required to obtain an SPSC queue via BuildSPSC.
func (b *Builder) SingleProducer() *Builder {
	b.opts.singleProducer = true
	return b
}

// BuildSPSC creates an SPSC queue with compile-time type safety.
// Panics if the builder was not configured with SingleProducer().
func BuildSPSC[T any](b *Builder) *SPSC[T] {
	if !b.opts.singleProducer {
		panic("fifo: BuildSPSC requires SingleProducer()")
	}
	return NewSPSC[T](b.opts.capacity)
}

// BuildMPSC creates an MPSC queue with compile-time type safety.
// Panics if the builder was configured with SingleProducer(); use BuildSPSC
// instead in that case.
func BuildMPSC[T any](b *Builder) *MPSC[T] {
	if b.opts.singleProducer {
		panic("fifo: BuildMPSC requires no SingleProducer() constraint")
	}
	return NewMPSC[T](b.opts.capacity)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill a cache line after an 8-byte field.
type padShort [64 - 8]byte
