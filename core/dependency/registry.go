package dependency

import (
	"fmt"
	"slices"
)

// Registry collects call implementations, decorators and fallbacks at startup.
// It is not safe for concurrent use. NewDispatcher copies it into an
// immutable route table, so later changes to the Registry do not affect
// dispatchers that were already built.
type Registry struct {
	entries map[Kind]*entry
}

type entry struct {
	kind       Kind
	handler    Call
	decorators []func(Call) Call
	fallback   fallbackCall
	policy     Policy
}

// RouteOption configures a single route.
type RouteOption func(*entry)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Kind]*entry)}
}

func (r *Registry) entry(kind Kind) *entry {
	e, ok := r.entries[kind]
	if !ok {
		e = &entry{kind: kind}
		r.entries[kind] = e
	}
	return e
}

// Register registers the call implementation for Req's kind.
// Panics if an implementation is already registered for the kind.
//
// Example:
//
//	reg := dependency.NewRegistry()
//	dependency.Register(reg, rates.Get,
//	    dependency.WithFallback(rates.FromCache),
//	    dependency.WithPolicy(dependency.NewPolicy(dependency.WithRetry(3))),
//	)
func Register[Req Request[Resp], Resp any](r *Registry, h HandlerFunc[Req, Resp], opts ...RouteOption) {
	kind := kindOf[Req]()
	e := r.entry(kind)
	if e.handler != nil {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateImplementation, kind))
	}
	e.handler = eraseHandler(h)

	for _, opt := range opts {
		opt(e)
	}
}

// Decorate appends decorators to Req's route.
// Decorators run in registration order: the first one registered is the
// outermost, and each wraps the next one down to the call implementation.
// Decorate may be called before or after Register.
//
// Example:
//
//	dependency.Decorate(reg,
//	    dependency.RateLimit[GetRate, Rate](rate.NewLimiter(10, 1)),
//	    dependency.Timeout[GetRate, Rate](2*time.Second),
//	)
func Decorate[Req Request[Resp], Resp any](r *Registry, decorators ...Decorator[Req, Resp]) {
	e := r.entry(kindOf[Req]())
	for _, dec := range decorators {
		e.decorators = append(e.decorators, eraseDecorator(dec))
	}
}

// WithFallback sets the fallback executor of a route.
// Panics if the route already has a fallback or the fallback's request kind
// differs from the route's kind.
func WithFallback[Req Request[Resp], Resp any](fb FallbackFunc[Req, Resp]) RouteOption {
	kind := kindOf[Req]()
	return func(e *entry) {
		if e.kind != kind {
			panic(fmt.Sprintf("%s: fallback for %s registered on %s", ErrRequestMismatch, kind, e.kind))
		}
		if e.fallback != nil {
			panic(fmt.Sprintf("%s: %s", ErrDuplicateFallback, kind))
		}
		e.fallback = eraseFallback(fb)
	}
}

// WithPolicy overrides the dispatcher's default policy for one route.
func WithPolicy(p Policy) RouteOption {
	return func(e *entry) {
		e.policy = p
	}
}

// route is the resolved, read-only form of an entry.
type route struct {
	kind     Kind
	call     Call
	fallback fallbackCall
	policy   Policy
}

// build resolves every entry into a route.
// Middleware wraps decorators, decorators wrap the call implementation.
func (r *Registry) build(middleware []Middleware, defaultPolicy Policy) (map[Kind]*route, error) {
	routes := make(map[Kind]*route, len(r.entries))

	kinds := make([]Kind, 0, len(r.entries))
	for kind := range r.entries {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)

	for _, kind := range kinds {
		e := r.entries[kind]
		if e.handler == nil {
			return nil, fmt.Errorf("%w: %s has decorators or a fallback but no implementation", ErrMissingImplementation, kind)
		}

		call := e.handler
		for i := len(e.decorators) - 1; i >= 0; i-- {
			call = e.decorators[i](call)
		}
		call = chainMiddleware(call, middleware)

		policy := e.policy
		if policy == nil {
			policy = defaultPolicy
		}

		routes[kind] = &route{
			kind:     kind,
			call:     call,
			fallback: e.fallback,
			policy:   policy,
		}
	}

	return routes, nil
}
