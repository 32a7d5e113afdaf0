package spotly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultBaseURL is the Spotly API root used when no override is configured.
	DefaultBaseURL = "http://localhost:5000/api/v1"

	// DefaultUploadsURL is where uploaded post images are served from.
	DefaultUploadsURL = "http://localhost:5000/uploads"
)

// Client is the typed Spotly API client. It owns the query cache and
// reads the bearer credential from its session store on every
// authenticated call.
//
// Example:
//
//	session := spotly.NewSession()
//	client := spotly.New(
//	    spotly.WithBaseURL("https://spotly.example/api/v1"),
//	    spotly.WithSession(session),
//	)
//	posts, err := client.Posts().List(ctx)
type Client struct {
	baseURL      string
	uploadsURL   string
	httpClient   *http.Client
	session      *Session
	cache        *Cache
	logger       *slog.Logger
	interceptors []CallInterceptor
	obs          *observability
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API root. A trailing slash is stripped.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithUploadsURL sets the base URL uploaded images are served from.
func WithUploadsURL(u string) Option {
	return func(c *Client) {
		c.uploadsURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSession sets the session store consulted for the bearer
// credential. Without it the client starts with a fresh in-memory
// session.
func WithSession(s *Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// WithLogger sets a custom logger for the client.
// If not set, slog.Default() will be used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCallInterceptor adds an interceptor around every outgoing call.
// Interceptors run in the order they were added (first added is
// outermost).
func WithCallInterceptor(i CallInterceptor) Option {
	return func(c *Client) {
		c.interceptors = append(c.interceptors, i)
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		uploadsURL: DefaultUploadsURL,
		httpClient: &http.Client{},
		obs:        defaultObservability(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = NewSession()
	}
	c.cache = newCache(c.obs)
	return c
}

// Session returns the session store the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

// Cache returns the client's query cache.
func (c *Client) Cache() *Cache {
	return c.cache
}

// ImageURL resolves an uploaded image filename against the uploads
// base URL.
func (c *Client) ImageURL(filename string) string {
	return c.uploadsURL + "/" + filename
}

// Posts returns the post operations.
func (c *Client) Posts() *PostsService { return &PostsService{c: c} }

// Tags returns the tag operations.
func (c *Client) Tags() *TagsService { return &TagsService{c: c} }

// Categories returns the category operations.
func (c *Client) Categories() *CategoriesService { return &CategoriesService{c: c} }

// Comments returns the task comment operations.
func (c *Client) Comments() *CommentsService { return &CommentsService{c: c} }

// Reviews returns the review operations.
func (c *Client) Reviews() *ReviewsService { return &ReviewsService{c: c} }

// Favorites returns the favorite operations.
func (c *Client) Favorites() *FavoritesService { return &FavoritesService{c: c} }

// Users returns the account operations.
func (c *Client) Users() *UsersService { return &UsersService{c: c} }

func (c *Client) slog() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, op, path string, out any) error {
	return c.do(ctx, op, http.MethodGet, path, nil, "", out)
}

// postJSON issues a POST with a JSON body, decoding into out when out
// is non-nil.
func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return Errorf(CodeInternal, "encode request: %v", err)
	}
	return c.do(ctx, op, http.MethodPost, path, body, "application/json", out)
}

// putJSON issues a PUT with a JSON body, decoding into out when out is
// non-nil.
func (c *Client) putJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return Errorf(CodeInternal, "encode request: %v", err)
	}
	return c.do(ctx, op, http.MethodPut, path, body, "application/json", out)
}

// del issues a DELETE.
func (c *Client) del(ctx context.Context, op, path string) error {
	return c.do(ctx, op, http.MethodDelete, path, nil, "", nil)
}

// do performs a single API call: one attempt, bearer credential from
// the session, error envelope decoded into *Error. It never retries;
// freshness is the cache layer's job, resilience is the caller's.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, contentType string, out any) error {
	info := &CallInfo{
		Operation: op,
		RequestID: uuid.NewString(),
	}
	ctx = withCallInfo(ctx, info)

	ctx, span := c.obs.startSpan(ctx, "spotly."+op)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Errorf(CodeInternal, "build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", info.RequestID)
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.roundTrip(ctx, req)
	duration := time.Since(start)

	if err != nil {
		c.obs.recordCall(ctx, op, duration, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return Errorf(CodeUnavailable, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp)
		c.obs.recordCall(ctx, op, duration, apiErr)
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Message)
		return apiErr
	}
	c.obs.recordCall(ctx, op, duration, nil)

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return Errorf(CodeInternal, "decode response: %v", err)
		}
	}
	return nil
}

// roundTrip runs the interceptor chain around the HTTP client.
func (c *Client) roundTrip(ctx context.Context, req *http.Request) (*http.Response, error) {
	final := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return c.httpClient.Do(req.WithContext(ctx))
	}
	if chain := chainCallInterceptors(c.interceptors); chain != nil {
		return chain(ctx, req, final)
	}
	return final(ctx, req)
}

// decodeAPIError turns a non-2xx response into an *Error, preferring
// the server-provided message when the body carries one.
func decodeAPIError(resp *http.Response) *Error {
	var body struct {
		Message string `json:"message"`
	}
	// Body may be empty or non-JSON; the status line is enough then.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)

	msg := body.Message
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return NewError(codeFromStatus(resp.StatusCode), msg)
}
