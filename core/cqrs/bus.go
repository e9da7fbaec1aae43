package cqrs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Bus routes commands and queries to their handlers synchronously.
//
// Example:
//
//	bus := cqrs.NewBus(
//	    cqrs.WithMiddleware(cqrs.LoggingMiddleware(logger)),
//	)
//	cqrs.RegisterCommand(bus, invoices.Issue,
//	    pg.Transactional[IssueInvoice](pool),
//	)
//	cqrs.RegisterQuery(bus, invoices.Get)
//
//	err := bus.Send(ctx, IssueInvoice{CustomerID: id})
//	inv, err := cqrs.Ask(ctx, bus, GetInvoice{ID: invoiceID})
type Bus struct {
	commands       map[string]HandlerFunc
	queries        map[string]HandlerFunc
	middleware     []Middleware
	defaultTimeout time.Duration
	logger         *slog.Logger
	mu             sync.RWMutex
}

// Option configures a Bus.
type Option func(*Bus)

// NewBus creates a Bus with the given options.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		commands: make(map[string]HandlerFunc),
		queries:  make(map[string]HandlerFunc),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithMiddleware sets middleware applied to every handler in the order provided.
// Middleware must be configured at construction time and cannot be changed later.
func WithMiddleware(middleware ...Middleware) Option {
	return func(b *Bus) {
		b.middleware = append(b.middleware, middleware...)
	}
}

// WithLogger sets the logger for the bus.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDefaultTimeout bounds messages whose context carries no deadline.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(b *Bus) {
		b.defaultTimeout = timeout
	}
}

// RegisterCommand registers the handler for C with its decorators.
// The decorator chain is resolved here; the first decorator is the outermost.
// Panics if a handler is already registered for the command.
//
// Example:
//
//	cqrs.RegisterCommand(bus, issueInvoice,
//	    cqrs.CommandRetry[IssueInvoice](3, 100*time.Millisecond, time.Second),
//	    cqrs.CommandTimeout[IssueInvoice](5*time.Second),
//	)
func RegisterCommand[C Command](b *Bus, h CommandHandler[C], decorators ...CommandDecorator[C]) {
	name := commandName[C]()
	b.register(b.commands, name, eraseCommand(ApplyCommandDecorators(h, decorators...)))
}

// RegisterQuery registers the handler for Q with its decorators.
// The decorator chain is resolved here; the first decorator is the outermost.
// Panics if a handler is already registered for the query.
func RegisterQuery[Q Query[R], R any](b *Bus, h QueryHandler[Q, R], decorators ...QueryDecorator[Q, R]) {
	name := queryName[Q]()
	b.register(b.queries, name, eraseQuery(ApplyQueryDecorators(h, decorators...)))
}

func (b *Bus) register(handlers map[string]HandlerFunc, name string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := handlers[name]; exists {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateHandler, name))
	}
	handlers[name] = h
}

// Send executes cmd and returns the handler error.
//
// Example:
//
//	if err := bus.Send(ctx, IssueInvoice{CustomerID: id}); err != nil {
//	    return err
//	}
func (b *Bus) Send(ctx context.Context, cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrNoHandler)
	}
	_, err := b.dispatch(ctx, b.commands, cmd.CommandName(), cmd)
	return err
}

// Ask executes q and returns its typed result.
//
// Example:
//
//	inv, err := cqrs.Ask(ctx, bus, GetInvoice{ID: id})
func Ask[R any](ctx context.Context, b *Bus, q Query[R]) (R, error) {
	var zero R
	if q == nil {
		return zero, fmt.Errorf("%w: nil query", ErrNoHandler)
	}

	v, err := b.dispatch(ctx, b.queries, q.QueryName(), q)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	res, ok := v.(R)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", ErrResultType, q.QueryName(), v)
	}
	return res, nil
}

func (b *Bus) dispatch(ctx context.Context, handlers map[string]HandlerFunc, name string, msg any) (any, error) {
	h, ok := b.handler(handlers, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, name)
	}

	ctx = WithMessageName(ctx, name)
	if MessageID(ctx) == "" {
		ctx = WithMessageID(ctx, uuid.NewString())
	}

	if b.defaultTimeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, b.defaultTimeout)
			defer cancel()
		}
	}

	return safeHandle(ctx, name, h, msg)
}

// handler retrieves a handler by name with middleware applied.
func (b *Bus) handler(handlers map[string]HandlerFunc, name string) (HandlerFunc, bool) {
	b.mu.RLock()
	h, exists := handlers[name]
	middleware := b.middleware
	b.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if len(middleware) > 0 {
		h = chainMiddleware(h, middleware)
	}
	return h, true
}
