package spotly

import (
	"context"
	"net/http"
)

// CallFunc represents the next step in a call interceptor chain. It is
// passed to [CallInterceptor] functions to invoke the next interceptor
// or the underlying HTTP round trip.
type CallFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// CallInterceptor is a hook that wraps every outgoing API call.
//
// Interceptors can inspect or modify the request before calling next,
// inspect the response after, short-circuit by returning an error
// without calling next, or add values to the context. The SDK
// operation behind the request is available via [CallInfoFromContext].
//
//	func timing(ctx context.Context, req *http.Request, next spotly.CallFunc) (*http.Response, error) {
//	    start := time.Now()
//	    res, err := next(ctx, req)
//	    log.Printf("%s took %v", req.URL.Path, time.Since(start))
//	    return res, err
//	}
type CallInterceptor func(ctx context.Context, req *http.Request, next CallFunc) (*http.Response, error)

// chainCallInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainCallInterceptors(interceptors []CallInterceptor) CallInterceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(ctx context.Context, req *http.Request, next CallFunc) (*http.Response, error) {
		chain := next
		for i := len(interceptors) - 1; i >= 1; i-- {
			current := interceptors[i]
			inner := chain
			chain = func(ctx context.Context, req *http.Request) (*http.Response, error) {
				return current(ctx, req, inner)
			}
		}
		return interceptors[0](ctx, req, chain)
	}
}
