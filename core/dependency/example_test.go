package dependency_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/callkit/core/dependency"
	"github.com/dmitrymomot/callkit/core/logger"
)

type Quote struct {
	Symbol string
	Price  int64
}

type GetQuote struct {
	dependency.Returns[Quote]
	Symbol string
}

func (GetQuote) Kind() dependency.Kind { return "market.get_quote" }

func Example() {
	reg := dependency.NewRegistry()
	dependency.Register(reg,
		func(ctx context.Context, req GetQuote) (Quote, error) {
			return Quote{}, errors.New("exchange offline")
		},
		dependency.WithFallback(func(ctx context.Context, req GetQuote, cause error) (Quote, error) {
			return Quote{Symbol: req.Symbol, Price: 100}, nil
		}),
	)

	d, err := dependency.NewDispatcher(reg,
		dependency.WithLogger(logger.Discard()),
		dependency.WithDefaultPolicy(dependency.NewPolicy(
			dependency.WithRetry(2),
			dependency.WithBackoff(time.Millisecond, time.Millisecond),
		)),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	quote, err := dependency.Dispatch(context.Background(), d, GetQuote{Symbol: "ACME"})
	fmt.Println(quote.Symbol, quote.Price, err)
	// Output: ACME 100 <nil>
}
