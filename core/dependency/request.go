package dependency

// Kind is the explicit tag a request type is routed by.
// Kinds must be unique within a Registry.
type Kind string

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// Kinded is the type-erased view of a request.
// Middleware receives requests through this interface.
type Kinded interface {
	Kind() Kind
}

// Request is a dependency call request producing a response of type Resp.
//
// A request type is declared by embedding Returns and providing a Kind method
// that does not depend on field values. The route table is keyed by the kind
// of the zero value, so request types must be value types.
//
// Example:
//
//	type GetRate struct {
//	    dependency.Returns[Rate]
//	    From, To string
//	}
//
//	func (GetRate) Kind() dependency.Kind { return "fx.get_rate" }
type Request[Resp any] interface {
	Kinded
	response(Resp)
}

// Returns marks the embedding struct as a request producing Resp.
// It carries no data.
type Returns[Resp any] struct{}

func (Returns[Resp]) response(Resp) {}

// kindOf returns the kind of Req's zero value.
func kindOf[Req Kinded]() Kind {
	var zero Req
	return zero.Kind()
}
