package spotly

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"iter"
	"strconv"
	"strings"
	"sync"
)

// SessionState is the client's record of the authenticated user.
// The zero value is the signed-out state.
type SessionState struct {
	Token    string `json:"token"`
	UserID   int    `json:"userId"`
	LoggedIn bool   `json:"loggedIn"`
}

// Session holds the current credential and derived identity. It is the
// single source of truth the client consults for the bearer token on
// every authenticated call. State can be read, updated through
// SignIn/Logout, and subscribed to. Thread-safe.
//
// Updates are broadcast to all subscribers; a slow subscriber may skip
// intermediate states and only sees the latest.
type Session struct {
	mu          sync.RWMutex
	state       SessionState
	store       SessionStore
	subscribers map[int64]chan SessionState
	nextSubID   int64
}

// NewSession creates an in-memory session in the signed-out state.
func NewSession() *Session {
	return &Session{
		subscribers: make(map[int64]chan SessionState),
	}
}

// LoadSession creates a session backed by store, restoring any
// persisted state so a credential survives process restarts.
func LoadSession(store SessionStore) (*Session, error) {
	s := NewSession()
	s.store = store
	state, ok, err := store.Load()
	if err != nil {
		return nil, Errorf(CodeInternal, "load session: %v", err)
	}
	if ok {
		s.state = state
	}
	return s, nil
}

// Get returns the current session state.
func (s *Session) Get() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current credential, or "" when signed out.
func (s *Session) Token() string {
	return s.Get().Token
}

// LoggedIn reports whether a credential is present.
func (s *Session) LoggedIn() bool {
	return s.Get().LoggedIn
}

// UserID returns the identity derived from the credential, or 0 when
// signed out.
func (s *Session) UserID() int {
	return s.Get().UserID
}

// SignIn decodes the credential's payload segment, extracts the
// subject claim as the user id, and applies token, identity and
// logged-in flag as one atomic transition. A malformed credential
// returns invalid_argument and leaves the previous session intact.
func (s *Session) SignIn(token string) error {
	userID, err := decodeSubject(token)
	if err != nil {
		return err
	}
	return s.set(SessionState{Token: token, UserID: userID, LoggedIn: true})
}

// Logout clears the credential, identity and logged-in flag.
func (s *Session) Logout() error {
	return s.set(SessionState{})
}

// Subscribe returns an iterator that yields the current state and all
// future transitions until ctx is canceled.
func (s *Session) Subscribe(ctx context.Context) iter.Seq[SessionState] {
	return func(yield func(SessionState) bool) {
		if !yield(s.Get()) {
			return
		}

		ch := make(chan SessionState, 1)
		subID := s.addSubscriber(ch)
		defer s.removeSubscriber(subID)

		for {
			select {
			case <-ctx.Done():
				return
			case state := <-ch:
				if !yield(state) {
					return
				}
			}
		}
	}
}

// set applies the state, persists it, and broadcasts to subscribers.
// The in-memory transition happens even when persistence fails; the
// store error is reported to the caller.
func (s *Session) set(state SessionState) error {
	s.mu.Lock()
	s.state = state
	subs := make([]chan SessionState, 0, len(s.subscribers))
	for _, ch := range s.subscribers {
		subs = append(subs, ch)
	}
	store := s.store
	s.mu.Unlock()

	// Broadcast outside the lock with non-blocking sends (latest-wins).
	for _, ch := range subs {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}

	if store != nil {
		if err := store.Save(state); err != nil {
			return Errorf(CodeInternal, "persist session: %v", err)
		}
	}
	return nil
}

func (s *Session) addSubscriber(ch chan SessionState) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	return id
}

func (s *Session) removeSubscriber(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, id)
}

// decodeSubject extracts the integer subject claim from the second
// segment of a dot-delimited credential. The signature is not
// verified; the server remains the authority on token validity.
func decodeSubject(token string) (int, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return 0, NewError(CodeInvalidArgument, "malformed credential")
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return 0, NewError(CodeInvalidArgument, "malformed credential payload")
	}

	var claims struct {
		Sub any `json:"sub"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return 0, NewError(CodeInvalidArgument, "malformed credential claims")
	}

	switch sub := claims.Sub.(type) {
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(sub))
		if err != nil {
			return 0, NewError(CodeInvalidArgument, "credential subject is not an integer")
		}
		return id, nil
	case float64:
		return int(sub), nil
	default:
		return 0, NewError(CodeInvalidArgument, "credential subject missing")
	}
}

func decodeSegment(seg string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(seg)
}
