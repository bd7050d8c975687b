package identity

import (
	"context"

	"inkwell/internal/models"
)

// MemoryProvider keeps the signed-in subject in process memory.
type MemoryProvider struct {
	state
	authn Authenticator
}

func NewMemoryProvider(authn Authenticator) *MemoryProvider {
	return &MemoryProvider{authn: authn}
}

func (p *MemoryProvider) SignIn(ctx context.Context) (models.Subject, error) {
	if p.authn == nil {
		return models.Subject{}, ErrNoAuthenticator
	}
	subject, err := p.authn.Authenticate(ctx)
	if err != nil {
		return models.Subject{}, err
	}
	p.set(&subject)
	return subject, nil
}

func (p *MemoryProvider) SignOut(ctx context.Context) error {
	p.set(nil)
	return nil
}

func (p *MemoryProvider) OnChange(fn Listener) func() {
	return p.subscribe(fn)
}
