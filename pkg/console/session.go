package console

import (
	"context"
	"errors"
	"sync"

	"palika-console/pkg/validation"
)

// Session owns the process-wide authentication state: token, current
// user, loading flag and last error. It is the only writer of the
// token store. State moves anonymous -> authenticating -> authenticated,
// and back to anonymous on logout or a failed silent reload.
type Session struct {
	client *Client
	tokens TokenStore

	mu          sync.RWMutex
	token       string
	currentUser *User
	loading     bool
	lastError   string
}

// NewSession creates a session bound to the client and token store.
// Call Reload once at startup to rehydrate a persisted token.
func NewSession(client *Client, tokens TokenStore) *Session {
	return &Session{
		client: client,
		tokens: tokens,
	}
}

// IsAuthenticated reports whether a token and user are both present
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.currentUser != nil
}

// CurrentUser returns the signed-in user, nil when anonymous
func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}

// Loading reports whether a session action is in flight
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the message of the last failed session action
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Login authenticates with email and password. The token is persisted
// only after both the credential exchange and the profile fetch
// succeed; a failure at any point leaves the session anonymous with
// the error recorded.
func (s *Session) Login(ctx context.Context, email, password string) error {
	// 1. Local validation before any network call
	if errs := validation.LoginSchema.Validate(validation.Values{
		"email":    email,
		"password": password,
	}); errs != nil {
		s.fail(errs.Error())
		return errs
	}

	s.setLoading(true)
	defer s.setLoading(false)

	// 2. Exchange credentials for a token
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.fail(errorMessage(err))
		return err
	}

	// 3. Confirm the token works by fetching the profile
	user, err := s.client.CurrentUserWithToken(ctx, result.Token)
	if err != nil {
		s.fail(errorMessage(err))
		return err
	}

	// 4. Persist and transition to authenticated
	if err := s.tokens.Save(result.Token); err != nil {
		s.fail("Could not persist session")
		return err
	}
	s.establish(result.Token, user)
	return nil
}

// Register creates an account and signs in, login-equivalent on success
func (s *Session) Register(ctx context.Context, input RegisterInput) error {
	values := validation.Values{
		"name":     input.Name,
		"email":    input.Email,
		"password": input.Password,
		"role":     "staff",
	}
	if input.DepartmentID != nil {
		values["department"] = *input.DepartmentID
	}
	if errs := validation.UserSchema.Validate(values); errs != nil {
		s.fail(errs.Error())
		return errs
	}

	s.setLoading(true)
	defer s.setLoading(false)

	result, err := s.client.Register(ctx, input)
	if err != nil {
		s.fail(errorMessage(err))
		return err
	}

	user, err := s.client.CurrentUserWithToken(ctx, result.Token)
	if err != nil {
		s.fail(errorMessage(err))
		return err
	}

	if err := s.tokens.Save(result.Token); err != nil {
		s.fail("Could not persist session")
		return err
	}
	s.establish(result.Token, user)
	return nil
}

// Reload rehydrates the session from a persisted token at startup.
// An invalid or expired token is cleared and the session stays
// anonymous; calling Reload again is a no-op.
func (s *Session) Reload(ctx context.Context) error {
	token, err := s.tokens.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil // Nothing persisted, stay anonymous
	}

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.client.CurrentUserWithToken(ctx, token)
	if err != nil {
		// Stale token: drop it rather than retrying forever
		_ = s.tokens.Clear()
		s.reset()
		return nil
	}

	s.establish(token, user)
	return nil
}

// Logout clears the persisted token and all session state. It always
// succeeds locally and is idempotent; server-side revocation is best
// effort.
func (s *Session) Logout(ctx context.Context) {
	_ = s.client.Logout(ctx)
	_ = s.tokens.Clear()
	s.reset()
}

func (s *Session) establish(token string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.currentUser = user
	s.lastError = ""
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.currentUser = nil
	s.lastError = ""
}

func (s *Session) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// errorMessage extracts the server's message, else a generic fallback
func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "Something went wrong, please try again"
}
