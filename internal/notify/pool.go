package notify

import (
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrPoolFull   = errors.New("notify: pool is full")
	ErrPoolClosed = errors.New("notify: pool is closed")
)

// Pool runs background tasks on a fixed set of workers. Submit never blocks:
// when the queue is at capacity the task is rejected with ErrPoolFull.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	log    *slog.Logger
}

func NewPool(size int, log *slog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = slog.Default()
	}

	p := &Pool{
		tasks: make(chan func(), size*2),
		log:   log,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops intake and waits for queued tasks to finish. Safe to call twice.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("notify_task_panic", "panic", r)
		}
	}()
	task()
}
