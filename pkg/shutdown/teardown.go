package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jwalitptl/patient-api/pkg/logger"
)

type hook struct {
	name string
	fn   func(ctx context.Context) error
}

// Teardown releases process-wide resources exactly once, in reverse
// registration order, whatever triggered it first.
type Teardown struct {
	log   *logger.Logger
	mu    sync.Mutex
	hooks []hook
	once  sync.Once
	err   error
	done  chan struct{}
}

func New(log *logger.Logger) *Teardown {
	if log == nil {
		log = logger.Nop()
	}
	return &Teardown{log: log, done: make(chan struct{})}
}

// Register adds a hook. Hooks registered after Run has started are ignored.
func (t *Teardown) Register(name string, fn func(ctx context.Context) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, hook{name: name, fn: fn})
}

// Run executes every hook once. Later calls block until the first run finishes
// and return its result.
func (t *Teardown) Run(ctx context.Context) error {
	t.once.Do(func() {
		defer close(t.done)

		t.mu.Lock()
		hooks := t.hooks
		t.hooks = nil
		t.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			h := hooks[i]
			if err := t.call(ctx, h); err != nil {
				t.log.Error(err, "Teardown hook failed", "hook", h.name)
				errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
				continue
			}
			t.log.Info("Released", "hook", h.name)
		}
		t.err = errors.Join(errs...)
	})
	<-t.done
	return t.err
}

func (t *Teardown) call(ctx context.Context, h hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.fn(ctx)
}

// Done is closed once every hook has run.
func (t *Teardown) Done() <-chan struct{} {
	return t.done
}

// NotifyContext returns a context cancelled on SIGINT or SIGTERM.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
