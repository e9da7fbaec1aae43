package cqrs

// Command is a request to change state. It produces no result.
// CommandName must not depend on field values.
type Command interface {
	CommandName() string
}

// Query is a request for data of type R.
// Query types embed Returns to declare R.
//
// Example:
//
//	type GetInvoice struct {
//	    cqrs.Returns[Invoice]
//	    ID typedid.ID[Invoice]
//	}
//
//	func (GetInvoice) QueryName() string { return "billing.get_invoice" }
type Query[R any] interface {
	QueryName() string
	result(R)
}

// Returns marks the embedding struct as a query producing R.
type Returns[R any] struct{}

func (Returns[R]) result(R) {}

type namedQuery interface {
	QueryName() string
}

func commandName[C Command]() string {
	var zero C
	return zero.CommandName()
}

func queryName[Q namedQuery]() string {
	var zero Q
	return zero.QueryName()
}
