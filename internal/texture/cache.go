package texture

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Cache deduplicates texture loads by path and hands decoded textures
// to callbacks.
//
// Completions from the backend are queued and only applied by Update
// (or Run), so callbacks run on the goroutine that drives the cache.
// A resolved path answers WithTexture inline. Entries live until
// ExpireDirectory removes them; there is no size bound.
type Cache struct {
	backend Backend
	log     *slog.Logger
	metrics *Metrics

	mu    sync.Mutex
	items map[string]*entry

	qmu   sync.Mutex
	queue []completion
	ready chan struct{}
}

type completion struct {
	path string
	e    *entry
	res  Result
}

// Option configures a Cache.
type Option func(*Cache)

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// NewCache creates an empty cache that loads through backend.
func NewCache(backend Backend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		items:   make(map[string]*entry),
		ready:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	return c
}

// WithTexture calls cb with the texture at path once it is loaded.
//
// The first request for a path submits one decode using kind's policy.
// Later requests for the same path share that load whatever their kind.
// If the load fails, no callback registered for it is ever called.
func (c *Cache) WithTexture(path string, kind Kind, cb Callback) {
	policy := PolicyFor(kind)

	c.mu.Lock()
	if e, ok := c.items[path]; ok {
		fire := e.register(cb)
		tex := e.tex
		c.mu.Unlock()

		if fire {
			c.metrics.requests.WithLabelValues("hit").Inc()
			cb(tex)
		} else {
			c.metrics.requests.WithLabelValues("queued").Inc()
		}
		return
	}

	e := &entry{}
	e.register(cb)
	c.items[path] = e
	c.metrics.entries.Set(float64(len(c.items)))
	c.mu.Unlock()

	c.metrics.requests.WithLabelValues("miss").Inc()
	c.log.Debug("texture load queued", "path", path, "kind", kind)

	c.backend.Submit(Request{Path: path, Policy: policy}, func(res Result) {
		c.deliver(completion{path: path, e: e, res: res})
	})
}

// ExpireDirectory drops every entry whose path starts with prefix,
// ignoring case, and returns how many were dropped. In-flight loads
// are not cancelled; their callbacks still run when they finish.
func (c *Cache) ExpireDirectory(prefix string) int {
	prefix = strings.ToLower(prefix)

	c.mu.Lock()
	n := 0
	for path := range c.items {
		if strings.HasPrefix(strings.ToLower(path), prefix) {
			delete(c.items, path)
			n++
		}
	}
	c.metrics.entries.Set(float64(len(c.items)))
	c.mu.Unlock()

	c.metrics.expired.Add(float64(n))
	c.log.Debug("textures expired", "prefix", prefix, "count", n)
	return n
}

// deliver is the backend's completion handler. It may run on any goroutine.
func (c *Cache) deliver(done completion) {
	c.qmu.Lock()
	c.queue = append(c.queue, done)
	c.qmu.Unlock()
	c.notify()
}

func (c *Cache) notify() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// Update applies every queued completion and runs the resulting
// callbacks on the calling goroutine. It returns the number of
// completions applied.
func (c *Cache) Update() int {
	c.qmu.Lock()
	queue := c.queue
	c.queue = nil
	c.qmu.Unlock()

	n := 0
	defer func() {
		// A callback panicked; keep what is left for the next Update.
		if n < len(queue)-1 {
			c.qmu.Lock()
			c.queue = append(append([]completion(nil), queue[n+1:]...), c.queue...)
			c.qmu.Unlock()
			c.notify()
		}
	}()
	for n < len(queue) {
		c.complete(queue[n])
		n++
	}
	return n
}

// Ready fires after a completion has been queued.
func (c *Cache) Ready() <-chan struct{} {
	return c.ready
}

// Run calls Update as completions arrive until ctx is done.
func (c *Cache) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.ready:
			c.Update()
		}
	}
}

func (c *Cache) complete(done completion) {
	res := done.res
	if res.Err != nil || res.Texture == nil {
		err := res.Err
		if err == nil {
			err = &DecodeError{Path: done.path, Message: "backend returned no texture"}
		}

		c.mu.Lock()
		dropped := done.e.fail()
		c.mu.Unlock()

		c.metrics.decodes.WithLabelValues("error").Inc()
		c.log.Error("texture load failed", "path", done.path, "err", err, "dropped", dropped)
		return
	}

	c.metrics.decodes.WithLabelValues("ok").Inc()

	c.mu.Lock()
	cbs := done.e.resolve(res.Texture)
	c.mu.Unlock()

	finished := false
	defer func() {
		if finished {
			return
		}
		c.mu.Lock()
		dropped := done.e.abort()
		c.mu.Unlock()
		c.log.Error("texture callback panicked", "path", done.path, "dropped", dropped)
	}()

	// Callbacks may register more callbacks on this entry; those are
	// queued behind the current batch until the entry is drained.
	for len(cbs) > 0 {
		for _, cb := range cbs {
			cb(res.Texture)
		}
		c.mu.Lock()
		cbs = done.e.drain()
		c.mu.Unlock()
	}
	finished = true
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Resolved reports whether path has a loaded texture.
func (c *Cache) Resolved(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[path]
	return ok && e.resolved()
}
