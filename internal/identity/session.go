package identity

import (
	"context"
	"fmt"

	"inkwell/internal/models"

	"github.com/gin-contrib/sessions"
)

// session 中保存用户信息的 key
const (
	sessionSubjectID     = "subject_id"
	sessionSubjectName   = "subject_name"
	sessionSubjectEmail  = "subject_email"
	sessionSubjectAvatar = "subject_avatar"
)

// SessionProvider stores the subject in a gin-contrib session so the
// sign-in survives across requests. One provider is built per request.
type SessionProvider struct {
	state
	session sessions.Session
	authn   Authenticator
}

// NewSessionProvider restores any subject already present in the session.
// authn may be nil for providers that only read or clear the session.
func NewSessionProvider(session sessions.Session, authn Authenticator) *SessionProvider {
	p := &SessionProvider{session: session, authn: authn}
	if sub, ok := subjectFromSession(session); ok {
		p.current = &sub
	}
	return p
}

func subjectFromSession(session sessions.Session) (models.Subject, bool) {
	id, ok := session.Get(sessionSubjectID).(string)
	if !ok || id == "" {
		return models.Subject{}, false
	}
	name, _ := session.Get(sessionSubjectName).(string)
	email, _ := session.Get(sessionSubjectEmail).(string)
	avatar, _ := session.Get(sessionSubjectAvatar).(string)
	return models.Subject{ID: id, Name: name, Email: email, Avatar: avatar}, true
}

func (p *SessionProvider) SignIn(ctx context.Context) (models.Subject, error) {
	if p.authn == nil {
		return models.Subject{}, ErrNoAuthenticator
	}
	subject, err := p.authn.Authenticate(ctx)
	if err != nil {
		return models.Subject{}, err
	}

	p.session.Set(sessionSubjectID, subject.ID)
	p.session.Set(sessionSubjectName, subject.Name)
	p.session.Set(sessionSubjectEmail, subject.Email)
	p.session.Set(sessionSubjectAvatar, subject.Avatar)
	if err := p.session.Save(); err != nil {
		return models.Subject{}, fmt.Errorf("save session: %w", err)
	}

	p.set(&subject)
	return subject, nil
}

func (p *SessionProvider) SignOut(ctx context.Context) error {
	p.session.Clear()
	if err := p.session.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	p.set(nil)
	return nil
}

func (p *SessionProvider) OnChange(fn Listener) func() {
	return p.subscribe(fn)
}
