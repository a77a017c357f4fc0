package decode

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"wardrobe-texcache/internal/texture"
)

// Pool is a texture.Backend that decodes on a fixed set of worker
// goroutines. Its queue is unbounded so Submit never blocks.
type Pool struct {
	workers int
	limits  texture.Limits
	log     *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []job
	closed bool

	wg        sync.WaitGroup
	completed atomic.Int64
}

type job struct {
	req  texture.Request
	done func(texture.Result)
}

// Option configures a Pool.
type Option func(*Pool)

// WithMaxFileSize rejects texture files larger than n bytes.
func WithMaxFileSize(n int64) Option {
	return func(p *Pool) { p.limits.MaxBytes = n }
}

// WithMaxPixels rejects images whose header declares more than n pixels.
func WithMaxPixels(n int64) Option {
	return func(p *Pool) { p.limits.MaxPixels = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) { p.log = l }
}

// NewPool starts workers goroutines; zero or less means NumCPU.
func NewPool(workers int, opts ...Option) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{workers: workers}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = slog.Default()
	}

	for w := 0; w < p.workers; w++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues req. After Close, done is called at once with an error.
func (p *Pool) Submit(req texture.Request, done func(texture.Result)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		done(texture.Result{Err: &texture.DecodeError{Path: req.Path, Message: "decode pool closed"}})
		return
	}
	p.queue = append(p.queue, job{req: req, done: done})
	p.cond.Signal()
	p.mu.Unlock()
}

// Close stops accepting work, finishes what is queued and waits for
// the workers to exit.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

// Completed returns the number of requests finished so far.
func (p *Pool) Completed() int64 {
	return p.completed.Load()
}

// Pending returns the number of queued requests not yet picked up.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		j := p.queue[0]
		p.queue[0] = job{}
		p.queue = p.queue[1:]
		p.mu.Unlock()

		res := p.decode(j.req)
		p.completed.Add(1)
		j.done(res)
	}
}

func (p *Pool) decode(req texture.Request) texture.Result {
	start := time.Now()

	img, err := texture.Load(req.Path, p.limits)
	if err != nil {
		return texture.Result{Err: texture.AsDecodeError(req.Path, err)}
	}

	tex, err := texture.Process(req.Path, img, req.Policy)
	if err != nil {
		return texture.Result{Err: texture.AsDecodeError(req.Path, err)}
	}

	p.log.Debug("texture decoded", "path", req.Path,
		"size", tex.Bounds().Size(), "levels", len(tex.Levels), "took", time.Since(start))
	return texture.Result{Texture: tex}
}
