package di

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-queryset-cache/cache"
	"github.com/goliatone/go-queryset-cache/querycache"
)

// Container provides dependency injection for the cache components. It holds
// the singleton store and codec shared by every manager created through it, so
// all managers built from one container invalidate against the same backend.
type Container struct {
	store  cache.Store
	codec  cache.Codec
	config cache.MemoryConfig
	log    zerolog.Logger
}

// Option configures a Container at construction.
type Option func(*Container)

// WithLogger attaches a logger that every manager created through the
// container inherits. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Container) { c.log = log }
}

// WithCodec overrides the entry codec shared by managers created through the
// container. The default is msgpack.
func WithCodec(codec cache.Codec) Option {
	return func(c *Container) { c.codec = codec }
}

// NewContainer creates a DI container backed by the in-process memory store.
func NewContainer(config cache.MemoryConfig, opts ...Option) (*Container, error) {
	store, err := cache.NewMemoryStore(config)
	if err != nil {
		return nil, err
	}
	return newContainer(store, config, opts...), nil
}

// NewContainerWithDefaults creates a DI container using the default memory
// store configuration. This is the convenience constructor for typical use
// cases where custom configuration is not required.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultMemoryConfig(), opts...)
}

// NewRedisContainer creates a DI container backed by Redis, for deployments
// where multiple processes share one cache. All keys are prefixed with prefix
// when it is non-empty.
func NewRedisContainer(client *redis.Client, prefix string, opts ...Option) *Container {
	return newContainer(cache.NewRedisStore(client, prefix), cache.MemoryConfig{}, opts...)
}

func newContainer(store cache.Store, config cache.MemoryConfig, opts ...Option) *Container {
	c := &Container{
		store:  store,
		codec:  cache.NewMsgpackCodec(),
		config: config,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the singleton store instance. This allows direct access to
// the backend for advanced use cases such as WithKeyInvalidation wrappers.
func (c *Container) Store() cache.Store {
	return c.store
}

// Codec returns the singleton entry codec instance.
func (c *Container) Codec() cache.Codec {
	return c.codec
}

// Config returns a copy of the memory store configuration used by this
// container. It is the zero value for Redis-backed containers.
func (c *Container) Config() cache.MemoryConfig {
	return c.config
}

// NewManager creates a read-through manager for T wired to the container's
// store, codec and logger.
//
// Since Go methods cannot have type parameters, this is provided as a
// package-level function. Example: NewManager[User](container, source, cfg)
func NewManager[T any](container *Container, source querycache.DataSource[T], cfg querycache.Config[T]) (*querycache.Manager[T], error) {
	return querycache.New[T](source, container.store, cfg,
		querycache.WithCodec[T](container.codec),
		querycache.WithLogger[T](container.log),
	)
}
