package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/yndnr/kvplay-go/internal/telemetry/logger"
)

// Hook is a cleanup step. It should return promptly once ctx is done.
type Hook func(ctx context.Context) error

// HookError reports a failed or skipped hook.
type HookError struct {
	Name string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("shutdown hook %s: %v", e.Name, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

type namedHook struct {
	name string
	fn   Hook
}

// Handler runs cleanup hooks once, on a signal or when asked.
type Handler struct {
	timeout time.Duration
	signals []os.Signal
	log     logger.Logger

	mu     sync.Mutex
	hooks  []namedHook
	signal os.Signal

	done chan struct{}
	once sync.Once
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		h.log = l
	}
}

// WithSignals replaces the signals that trigger shutdown. The default is
// SIGINT and SIGTERM.
func WithSignals(sigs ...os.Signal) Option {
	return func(h *Handler) {
		h.signals = sigs
	}
}

// NewHandler creates a Handler whose hooks share a budget of timeout.
func NewHandler(timeout time.Duration, opts ...Option) *Handler {
	h := &Handler{
		timeout: timeout,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		log:     logger.Discard(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnShutdown registers a hook. Hooks run in reverse order of registration.
func (h *Handler) OnShutdown(name string, fn Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, namedHook{name: name, fn: fn})
}

// Wait blocks until a signal arrives, then runs the hooks.
func (h *Handler) Wait() error {
	return h.WaitContext(context.Background())
}

// WaitContext blocks until a signal arrives or ctx ends, then runs the hooks.
func (h *Handler) WaitContext(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, h.signals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		h.mu.Lock()
		h.signal = sig
		h.mu.Unlock()
		h.log.Info("shutdown requested", "signal", sig.String())
	case <-ctx.Done():
	}
	return h.Shutdown()
}

// Shutdown runs the hooks without waiting. Only the first call runs them;
// the result joins every HookError.
func (h *Handler) Shutdown() error {
	var err error
	h.once.Do(func() {
		err = h.runHooks()
		close(h.done)
	})
	return err
}

// Signal returns the signal that triggered shutdown, or nil.
func (h *Handler) Signal() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.signal
}

// Done is closed once the hooks have run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

func (h *Handler) runHooks() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := append([]namedHook(nil), h.hooks...)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		if err := ctx.Err(); err != nil {
			errs = append(errs, &HookError{Name: hook.name, Err: err})
			continue
		}

		start := time.Now()
		if err := hook.fn(ctx); err != nil {
			h.log.Warn("shutdown hook failed", "hook", hook.name, "error", err)
			errs = append(errs, &HookError{Name: hook.name, Err: err})
			continue
		}
		h.log.Debug("shutdown hook done", "hook", hook.name, "duration", time.Since(start))
	}
	return errors.Join(errs...)
}
