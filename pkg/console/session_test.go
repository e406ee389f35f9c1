package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"palika-console/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend fakes the API gateway for session tests. It counts the
// calls per endpoint so tests can assert which requests never happen.
type stubBackend struct {
	mu          sync.Mutex
	loginCalls  int
	userCalls   int
	logoutCalls int

	token     string
	user      User
	failLogin bool
	failUser  bool
}

func (b *stubBackend) counts() (login, user, logout int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loginCalls, b.userCalls, b.logoutCalls
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data interface{}, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": "",
		"data":    data,
		"error":   errMsg,
	})
}

func (b *stubBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.loginCalls++
		fail := b.failLogin
		b.mu.Unlock()

		if fail {
			writeEnvelope(w, http.StatusUnauthorized, false, nil, "Invalid email or password")
			return
		}
		writeEnvelope(w, http.StatusOK, true, map[string]interface{}{
			"token": b.token,
			"user":  b.user,
		}, "")
	})

	mux.HandleFunc("/auth/user", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.userCalls++
		fail := b.failUser
		b.mu.Unlock()

		if fail || r.Header.Get(TokenHeader) != b.token {
			writeEnvelope(w, http.StatusUnauthorized, false, nil, "Invalid or expired token")
			return
		}
		writeEnvelope(w, http.StatusOK, true, b.user, "")
	})

	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.logoutCalls++
		b.mu.Unlock()
		writeEnvelope(w, http.StatusOK, true, nil, "")
	})

	return mux
}

func newSessionFixture(t *testing.T, backend *stubBackend) (*Session, *MemoryTokenStore, func()) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	store := NewMemoryTokenStore()
	client := NewClient(server.URL, store)
	return NewSession(client, store), store, server.Close
}

func TestSessionLoginSuccess(t *testing.T) {
	backend := &stubBackend{
		token: "tok-1",
		user:  User{ID: 3, Name: "Ram", Email: "a@b.com", Role: "staff"},
	}
	session, store, done := newSessionFixture(t, backend)
	defer done()

	err := session.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	assert.True(t, session.IsAuthenticated())
	require.NotNil(t, session.CurrentUser())
	assert.Equal(t, "a@b.com", session.CurrentUser().Email)
	assert.Empty(t, session.LastError())

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", saved)
}

func TestSessionLoginBadCredentials(t *testing.T) {
	backend := &stubBackend{failLogin: true}
	session, store, done := newSessionFixture(t, backend)
	defer done()

	err := session.Login(context.Background(), "a@b.com", "wrong-pass")
	require.Error(t, err)

	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.CurrentUser())
	assert.Equal(t, "Invalid email or password", session.LastError())

	saved, _ := store.Load()
	assert.Empty(t, saved, "a failed login must not persist a token")
}

func TestSessionLoginLocalValidationSkipsNetwork(t *testing.T) {
	backend := &stubBackend{}
	session, _, done := newSessionFixture(t, backend)
	defer done()

	err := session.Login(context.Background(), "not-an-email", "")
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	login, user, _ := backend.counts()
	assert.Zero(t, login, "invalid credentials must not reach the server")
	assert.Zero(t, user)
}

func TestSessionTokenPersistedOnlyAfterProfileFetch(t *testing.T) {
	backend := &stubBackend{
		token:    "tok-1",
		user:     User{ID: 3, Email: "a@b.com", Role: "staff"},
		failUser: true,
	}
	session, store, done := newSessionFixture(t, backend)
	defer done()

	err := session.Login(context.Background(), "a@b.com", "secret1")
	require.Error(t, err)

	assert.False(t, session.IsAuthenticated())
	saved, _ := store.Load()
	assert.Empty(t, saved, "token must not be persisted before the profile fetch succeeds")
}

func TestSessionReloadValidToken(t *testing.T) {
	backend := &stubBackend{
		token: "tok-1",
		user:  User{ID: 3, Email: "a@b.com", Role: "staff"},
	}
	session, store, done := newSessionFixture(t, backend)
	defer done()

	require.NoError(t, store.Save("tok-1"))
	require.NoError(t, session.Reload(context.Background()))

	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "a@b.com", session.CurrentUser().Email)
}

func TestSessionReloadStaleTokenClearsStore(t *testing.T) {
	backend := &stubBackend{token: "tok-1"}
	session, store, done := newSessionFixture(t, backend)
	defer done()

	require.NoError(t, store.Save("stale-token"))
	require.NoError(t, session.Reload(context.Background()))

	assert.False(t, session.IsAuthenticated())
	saved, _ := store.Load()
	assert.Empty(t, saved)

	// A second reload has nothing to rehydrate and stays quiet
	_, userCallsBefore, _ := backend.counts()
	require.NoError(t, session.Reload(context.Background()))
	_, userCallsAfter, _ := backend.counts()
	assert.Equal(t, userCallsBefore, userCallsAfter)
}

func TestSessionLogoutIdempotent(t *testing.T) {
	backend := &stubBackend{
		token: "tok-1",
		user:  User{ID: 3, Email: "a@b.com", Role: "staff"},
	}
	session, store, done := newSessionFixture(t, backend)
	defer done()

	require.NoError(t, session.Login(context.Background(), "a@b.com", "secret1"))
	require.True(t, session.IsAuthenticated())

	session.Logout(context.Background())
	assert.False(t, session.IsAuthenticated())
	saved, _ := store.Load()
	assert.Empty(t, saved)

	// Logging out again changes nothing and does not panic
	session.Logout(context.Background())
	assert.False(t, session.IsAuthenticated())
}

func TestRouteGuard(t *testing.T) {
	store := NewMemoryTokenStore()
	guard := NewRouteGuard(store)

	assert.False(t, guard.Allow())
	assert.Equal(t, "/login", guard.Route("/departments"))
	assert.Equal(t, "/login", guard.Route("/login"))

	require.NoError(t, store.Save("tok-1"))
	assert.True(t, guard.Allow())
	assert.Equal(t, "/departments", guard.Route("/departments"))
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/token"
	store, err := NewFileTokenStore(path)
	require.NoError(t, err)

	// Missing file reads as anonymous
	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("tok-1"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice is fine")
	token, _ = store.Load()
	assert.Empty(t, token)
}
