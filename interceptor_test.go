package spotly

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestChainCallInterceptors_Empty(t *testing.T) {
	if chain := chainCallInterceptors(nil); chain != nil {
		t.Error("empty chain should be nil")
	}
}

func TestChainCallInterceptors_Order(t *testing.T) {
	var order []string
	tag := func(name string) CallInterceptor {
		return func(ctx context.Context, req *http.Request, next CallFunc) (*http.Response, error) {
			order = append(order, name+":before")
			resp, err := next(ctx, req)
			order = append(order, name+":after")
			return resp, err
		}
	}

	chain := chainCallInterceptors([]CallInterceptor{tag("a"), tag("b"), tag("c")})
	_, err := chain(context.Background(), nil, func(ctx context.Context, req *http.Request) (*http.Response, error) {
		order = append(order, "final")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("chain: %v", err)
	}

	want := []string{"a:before", "b:before", "c:before", "final", "c:after", "b:after", "a:after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestChainCallInterceptors_ShortCircuit(t *testing.T) {
	boom := errors.New("denied")
	chain := chainCallInterceptors([]CallInterceptor{
		func(ctx context.Context, req *http.Request, next CallFunc) (*http.Response, error) {
			return nil, boom
		},
	})

	called := false
	_, err := chain(context.Background(), nil, func(ctx context.Context, req *http.Request) (*http.Response, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the interceptor's error", err)
	}
	if called {
		t.Error("short-circuit must not reach the final call")
	}
}
