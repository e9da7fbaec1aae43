// Package cqrs provides a synchronous command and query bus with typed
// handlers, per-handler decorators and bus-wide middleware.
//
// Commands implement CommandName and return only an error. Queries embed
// Returns to declare their result type and implement QueryName:
//
//	type IssueInvoice struct {
//		CustomerID string `validate:"required"`
//	}
//
//	func (IssueInvoice) CommandName() string { return "billing.issue_invoice" }
//
//	type GetInvoice struct {
//		cqrs.Returns[Invoice]
//		ID string
//	}
//
//	func (GetInvoice) QueryName() string { return "billing.get_invoice" }
//
// Handlers are registered once per message name together with their
// decorators. The decorator list is explicit and ordered: the first decorator
// is the outermost and the handler is innermost.
//
//	bus := cqrs.NewBus(cqrs.WithMiddleware(
//		cqrs.LoggingMiddleware(logger),
//		cqrs.ValidationMiddleware(nil),
//	))
//	cqrs.RegisterCommand(bus, issueInvoice,
//		cqrs.CommandRetry[IssueInvoice](3, 50*time.Millisecond, time.Second),
//		pg.Transactional[IssueInvoice](pool),
//	)
//	cqrs.RegisterQuery(bus, getInvoice)
//
//	err := bus.Send(ctx, IssueInvoice{CustomerID: "c_1"})
//	inv, err := cqrs.Ask(ctx, bus, GetInvoice{ID: "inv_1"})
//
// Middleware wraps every handler and runs outside the decorators. Handler
// panics are recovered and returned as ErrHandlerPanic.
package cqrs
