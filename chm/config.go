package chm

import "github.com/Emanem/ehmap/logger"

const defaultOverflowBlockSize = 128 * 1024
const defaultBuckets = 1024

type config struct {
	buckets           uint32
	elems             uint32
	elemsSet          bool
	overflowBlockSize uint32
	log               logger.Logger
}

// Option configures a Map at construction time, the idiomatic Go
// stand-in for compile-time sizing constants.
type Option func(*config)

// WithBuckets sets the number of primary buckets. Defaults to 1024.
// WithBuckets(0) is rejected by New with a KindConfig error.
func WithBuckets(n uint32) Option {
	return func(c *config) { c.buckets = n }
}

// WithElems sets the slab capacity. Defaults to 8 times the bucket
// count. WithElems(0) is rejected by New with a KindConfig error.
func WithElems(n uint32) Option {
	return func(c *config) { c.elems, c.elemsSet = n, true }
}

// WithOverflowBlockSize sets how many bucket nodes each overflow
// block preallocates. Defaults to 128Ki nodes (~8MiB).
func WithOverflowBlockSize(n uint32) Option {
	return func(c *config) { c.overflowBlockSize = n }
}

// WithLogger routes overflow-allocation-failure diagnostics through l.
// A nil logger (the default) means Map never logs.
func WithLogger(l logger.Logger) Option {
	return func(c *config) { c.log = l }
}

func newConfig(opts []Option) config {
	c := config{buckets: defaultBuckets}
	for _, o := range opts {
		o(&c)
	}
	if !c.elemsSet {
		c.elems = c.buckets * 8
	}
	if c.overflowBlockSize == 0 {
		c.overflowBlockSize = defaultOverflowBlockSize
	}
	return c
}
