package console

// RouteGuard gates navigation to authenticated-only screens. It is a
// stateless predicate over the persisted token: presence renders the
// protected screen, absence redirects to login. Token validity is not
// checked here; an expired token passes the guard and the first API
// call fails with an authorization error instead.
type RouteGuard struct {
	tokens TokenStore
}

// NewRouteGuard creates a guard over the given token store
func NewRouteGuard(tokens TokenStore) *RouteGuard {
	return &RouteGuard{tokens: tokens}
}

// Allow reports whether a protected route may render
func (g *RouteGuard) Allow() bool {
	token, err := g.tokens.Load()
	return err == nil && token != ""
}

// Route resolves a requested path: protected paths without a token
// redirect to /login, everything else passes through.
func (g *RouteGuard) Route(path string) string {
	if path == "/login" || g.Allow() {
		return path
	}
	return "/login"
}
