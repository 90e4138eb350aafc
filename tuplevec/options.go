package tuplevec

import "github.com/histdb/tuplevec/alloc"

type options struct {
	alloc    alloc.Allocator
	capacity int
}

type Option func(*options)

// WithAllocator sets the allocator for the column storage. For fixed
// containers it is the overflow allocator.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) { o.alloc = a }
}

// WithCapacity reserves room for n rows up front.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

func collect(opts []Option) (o options) {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
