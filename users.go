package spotly

import "context"

// SignUpForm carries the fields of an account create.
type SignUpForm struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Credentials carries a sign-in request.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UsersService exposes account and sign-in operations.
type UsersService struct {
	c *Client
}

// Current returns the authenticated account, cached under
// KeyCurrentUser.
func (s *UsersService) Current(ctx context.Context) (User, error) {
	return cachedFetch(ctx, s.c, KeyCurrentUser, func(ctx context.Context) (User, error) {
		var user User
		err := s.c.get(ctx, "users.current", "/users/me", &user)
		return user, err
	})
}

// SignUp creates a new account.
func (s *UsersService) SignUp(ctx context.Context, form SignUpForm) error {
	if err := validateForm(form); err != nil {
		return err
	}
	return s.c.postJSON(ctx, "users.signUp", "/users", form, nil)
}

// Login exchanges credentials for a token and signs the session in.
// The current-user key is flushed so the next read reflects the new
// identity.
func (s *UsersService) Login(ctx context.Context, creds Credentials) error {
	if err := validateForm(creds); err != nil {
		return err
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := s.c.postJSON(ctx, "users.login", "/signin", creds, &out); err != nil {
		return err
	}
	if err := s.c.session.SignIn(out.AccessToken); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyCurrentUser)
	return nil
}

// Logout clears the session and flushes the current-user key.
func (s *UsersService) Logout() error {
	if err := s.c.session.Logout(); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyCurrentUser)
	return nil
}
