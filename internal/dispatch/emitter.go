package dispatch

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Listener is a passive subscriber invoked for side effects only. It never
// produces the HTTP response, and its failure never reaches the requester.
type Listener func(ctx context.Context, payload any) error

// Emitter is a named fan-out channel for passive listeners. Emit schedules
// each listener as a detached task and returns immediately; the HTTP
// response never waits for listeners. The emitter supervises its detached
// tasks: errors and panics are caught and logged instead of vanishing, and
// Drain waits for in-flight tasks during shutdown.
//
// Subscription happens at startup only; the listener map is read-only once
// serving begins, so Emit takes no lock.
type Emitter struct {
	name      string
	log       *zap.Logger
	listeners map[string][]Listener
	wg        sync.WaitGroup
}

func NewEmitter(name string, log *zap.Logger) *Emitter {
	return &Emitter{
		name:      name,
		log:       log.With(zap.String("emitter", name)),
		listeners: make(map[string][]Listener),
	}
}

// On subscribes a listener to a key. Multiple listeners per key are
// allowed; all of them fire on Emit.
func (e *Emitter) On(key string, l Listener) {
	e.listeners[key] = append(e.listeners[key], l)
}

// Emit schedules every listener subscribed to key and returns the number
// scheduled. The tasks run on a context detached from the request's
// cancellation, since they outlive the HTTP response.
func (e *Emitter) Emit(ctx context.Context, key string, payload any) int {
	subscribed := e.listeners[key]
	if len(subscribed) == 0 {
		return 0
	}

	e.log.Debug("emitting", zap.String("key", key), zap.Int("listeners", len(subscribed)))
	detached := context.WithoutCancel(ctx)
	for _, l := range subscribed {
		e.wg.Add(1)
		go e.invoke(detached, key, l, payload)
	}
	return len(subscribed)
}

func (e *Emitter) invoke(ctx context.Context, key string, l Listener, payload any) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("listener panicked",
				zap.String("key", key),
				zap.String("panic", fmt.Sprintf("%v", r)))
		}
	}()

	if err := l(ctx, payload); err != nil {
		e.log.Error("listener failed", zap.String("key", key), zap.Error(err))
	}
}

// Drain blocks until all scheduled listeners have finished.
func (e *Emitter) Drain() {
	e.wg.Wait()
}
