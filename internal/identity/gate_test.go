package identity

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticAuth(sub models.Subject) Authenticator {
	return AuthenticatorFunc(func(ctx context.Context) (models.Subject, error) {
		return sub, nil
	})
}

func TestGateWithoutSubjectDeniesAccess(t *testing.T) {
	gate := NewGate(NewMemoryProvider(nil))
	defer gate.Close()

	_, ok := gate.CurrentUser()
	assert.False(t, ok)
	assert.Nil(t, gate.Subject())

	called := false
	err := gate.RequireAuthenticated(func(models.Subject) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	var denied *AccessDenied
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, LoginPath, denied.RedirectTo)
}

func TestGateFollowsProviderState(t *testing.T) {
	alice := models.Subject{ID: "u-1", Name: "Alice Doe"}
	provider := NewMemoryProvider(staticAuth(alice))
	gate := NewGate(provider)
	defer gate.Close()

	sub, err := gate.SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, alice, sub)

	current, ok := gate.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, alice, current)

	var rendered models.Subject
	err = gate.RequireAuthenticated(func(s models.Subject) error {
		rendered = s
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, alice, rendered)

	require.NoError(t, gate.SignOut(context.Background()))
	_, ok = gate.CurrentUser()
	assert.False(t, ok)
}

func TestGateSeesSignInThroughOtherGate(t *testing.T) {
	provider := NewMemoryProvider(staticAuth(models.Subject{ID: "u-2"}))
	first := NewGate(provider)
	second := NewGate(provider)
	defer first.Close()
	defer second.Close()

	_, err := first.SignIn(context.Background())
	require.NoError(t, err)

	sub, ok := second.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u-2", sub.ID)
}

func TestRenderErrorIsReturned(t *testing.T) {
	provider := NewMemoryProvider(staticAuth(models.Subject{ID: "u-3"}))
	gate := NewGate(provider)
	defer gate.Close()
	_, err := gate.SignIn(context.Background())
	require.NoError(t, err)

	boom := errors.New("boom")
	err = gate.RequireAuthenticated(func(models.Subject) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestOnChangeReportsCurrentStateImmediately(t *testing.T) {
	provider := NewMemoryProvider(staticAuth(models.Subject{ID: "u-4"}))

	var seen []*models.Subject
	cancel := provider.OnChange(func(s *models.Subject) { seen = append(seen, s) })

	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	_, err := provider.SignIn(context.Background())
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, "u-4", seen[1].ID)

	cancel()
	cancel()
	require.NoError(t, provider.SignOut(context.Background()))
	assert.Len(t, seen, 2)
}

func TestSignInFailures(t *testing.T) {
	_, err := NewMemoryProvider(nil).SignIn(context.Background())
	assert.ErrorIs(t, err, ErrNoAuthenticator)

	denied := errors.New("popup closed")
	provider := NewMemoryProvider(AuthenticatorFunc(func(context.Context) (models.Subject, error) {
		return models.Subject{}, denied
	}))
	gate := NewGate(provider)
	defer gate.Close()

	_, err = gate.SignIn(context.Background())
	assert.ErrorIs(t, err, denied)
	_, ok := gate.CurrentUser()
	assert.False(t, ok)
}
