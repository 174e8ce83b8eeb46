package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"slack_gateway/internal/model"
)

// Responder is the single handler permitted to produce the HTTP response
// body for a routing key. An empty body means "ack only".
type Responder func(ctx context.Context, in *model.Interaction) (string, error)

var (
	// ErrDuplicateHandler is returned when a routing key is registered
	// twice. Registration happens at startup, so this is fatal to process
	// initialization, never deferred to request time.
	ErrDuplicateHandler = errors.New("routing key already registered")

	// ErrAmbiguousRoute is returned when more than one registered key
	// matches an interaction's candidate keys. The HTTP response channel
	// is single-use, so only one responder may answer; two matches is a
	// deployment configuration bug and must fail loudly.
	ErrAmbiguousRoute = errors.New("multiple responders matched")
)

// Registry maps routing keys to responders. Registration is single-threaded
// and completes before any request is served; lookups afterwards are
// read-only, so no locking is needed.
type Registry struct {
	callbacks map[string]Responder
}

func NewRegistry() *Registry {
	return &Registry{callbacks: make(map[string]Responder)}
}

// Register binds key to exactly one responder.
func (r *Registry) Register(key string, fn Responder) error {
	if _, exists := r.callbacks[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, key)
	}
	r.callbacks[key] = fn
	return nil
}

// Resolve intersects the candidate keys with the registered key set.
// Exactly one match returns that responder and its key; zero matches
// returns nil (a normal outcome, the caller acks with an empty body);
// more than one fails with ErrAmbiguousRoute.
func (r *Registry) Resolve(candidates []string) (Responder, string, error) {
	var matched []string
	for _, key := range candidates {
		if _, ok := r.callbacks[key]; ok {
			matched = append(matched, key)
		}
	}
	switch len(matched) {
	case 0:
		return nil, "", nil
	case 1:
		return r.callbacks[matched[0]], matched[0], nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrAmbiguousRoute, strings.Join(matched, ", "))
	}
}

// Keys returns the registered routing keys in sorted order, for startup
// logging.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.callbacks))
	for key := range r.callbacks {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
