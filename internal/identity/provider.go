// Package identity mirrors the sign-in state reported by an external
// identity provider and guards operations that need a signed-in subject.
package identity

import (
	"context"
	"errors"
	"sync"

	"inkwell/internal/models"
)

// LoginPath 未登录访问受保护资源时的跳转目标
const LoginPath = "/auth/login"

var ErrNoAuthenticator = errors.New("identity: provider has no authenticator")

// Listener receives the current subject, or nil after sign-out.
type Listener func(subject *models.Subject)

// Provider is the capability consumed from an identity service.
// OnChange calls fn once with the current state before returning, then on
// every change until cancel is called.
type Provider interface {
	SignIn(ctx context.Context) (models.Subject, error)
	SignOut(ctx context.Context) error
	OnChange(fn Listener) (cancel func())
}

// Authenticator performs the actual credential check for a provider
// (OAuth code exchange, development login, ...).
type Authenticator interface {
	Authenticate(ctx context.Context) (models.Subject, error)
}

type AuthenticatorFunc func(ctx context.Context) (models.Subject, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context) (models.Subject, error) {
	return f(ctx)
}

// state 保存当前用户并负责通知监听者，供各 Provider 复用
type state struct {
	mu        sync.Mutex
	current   *models.Subject
	listeners map[int]Listener
	nextID    int
}

func (s *state) snapshot() *models.Subject {
	if s.current == nil {
		return nil
	}
	sub := *s.current
	return &sub
}

func (s *state) set(subject *models.Subject) {
	s.mu.Lock()
	if subject == nil {
		s.current = nil
	} else {
		sub := *subject
		s.current = &sub
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		if subject == nil {
			l(nil)
			continue
		}
		sub := *subject
		l(&sub)
	}
}

func (s *state) subscribe(fn Listener) func() {
	s.mu.Lock()
	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	cur := s.snapshot()
	s.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}
