package identity

import (
	"context"
	"sync"

	"inkwell/internal/models"
)

// AccessDenied is returned instead of rendering a gated view. It carries the
// navigation intent; performing the redirect is left to the caller.
type AccessDenied struct {
	RedirectTo string
}

func (e *AccessDenied) Error() string {
	return "access denied: sign-in required"
}

func (e *AccessDenied) Unwrap() error {
	return models.ErrNotAuthenticated
}

// Gate is a read-only view of the provider's sign-in state.
type Gate struct {
	provider Provider
	cancel   func()

	mu      sync.RWMutex
	current *models.Subject
}

func NewGate(provider Provider) *Gate {
	g := &Gate{provider: provider}
	g.cancel = provider.OnChange(g.update)
	return g
}

func (g *Gate) update(subject *models.Subject) {
	g.mu.Lock()
	g.current = subject
	g.mu.Unlock()
}

// CurrentUser 返回当前登录用户；未登录不是错误
func (g *Gate) CurrentUser() (models.Subject, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return models.Subject{}, false
	}
	return *g.current, true
}

// Subject returns the current subject or nil, for callers such as
// ContentStore.Create that take an optional subject.
func (g *Gate) Subject() *models.Subject {
	sub, ok := g.CurrentUser()
	if !ok {
		return nil
	}
	return &sub
}

// RequireAuthenticated calls render with the current subject, or returns
// *AccessDenied pointing at LoginPath when nobody is signed in.
func (g *Gate) RequireAuthenticated(render func(models.Subject) error) error {
	sub, ok := g.CurrentUser()
	if !ok {
		return &AccessDenied{RedirectTo: LoginPath}
	}
	return render(sub)
}

// SignIn delegates to the provider; the gate picks up the new state through
// its change listener.
func (g *Gate) SignIn(ctx context.Context) (models.Subject, error) {
	return g.provider.SignIn(ctx)
}

func (g *Gate) SignOut(ctx context.Context) error {
	return g.provider.SignOut(ctx)
}

// Close stops listening to the provider.
func (g *Gate) Close() {
	g.cancel()
}
