package spotly

import "context"

type contextKey struct {
	name string
}

var callInfoKey = &contextKey{"call_info"}

// CallInfo identifies the SDK operation behind an outgoing request.
type CallInfo struct {
	Operation string // e.g. "reviews.create"
	RequestID string
}

// CallInfoFromContext returns the call metadata for the current
// outgoing request. It is set for the duration of every interceptor
// chain.
func CallInfoFromContext(ctx context.Context) (*CallInfo, bool) {
	info, ok := ctx.Value(callInfoKey).(*CallInfo)
	return info, ok
}

func withCallInfo(ctx context.Context, info *CallInfo) context.Context {
	return context.WithValue(ctx, callInfoKey, info)
}
