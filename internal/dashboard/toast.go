package dashboard

import (
	"sync"
	"time"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastWarning ToastKind = "warning"
	ToastInfo    ToastKind = "info"
)

const DefaultToastDuration = 4 * time.Second

type Toast struct {
	Kind    ToastKind
	Message string
}

// Notifier holds at most one toast. A toast dismisses itself after the
// configured duration unless it has been replaced in the meantime.
type Notifier struct {
	duration time.Duration
	onChange func()

	mu      sync.Mutex
	current *Toast
	gen     uint64
	timer   *time.Timer
}

func NewNotifier(duration time.Duration, onChange func()) *Notifier {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &Notifier{duration: duration, onChange: onChange}
}

func (n *Notifier) Show(kind ToastKind, message string) {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.current = &Toast{Kind: kind, Message: message}
	n.timer = time.AfterFunc(n.duration, func() { n.expire(gen) })
	n.mu.Unlock()

	n.onChange()
}

func (n *Notifier) Success(message string) { n.Show(ToastSuccess, message) }
func (n *Notifier) Error(message string)   { n.Show(ToastError, message) }

// Dismiss closes the current toast.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.current == nil {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
	n.mu.Unlock()

	n.onChange()
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.current == nil {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	n.mu.Unlock()

	n.onChange()
}

// Current returns a copy of the visible toast, or nil.
func (n *Notifier) Current() *Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	t := *n.current
	return &t
}

func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
