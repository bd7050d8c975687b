package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"inkwell/internal/models"
)

// WelcomeMailer is notified once per new subscriber.
type WelcomeMailer interface {
	SendNewsletterWelcome(email string)
}

// Newsletter keeps the subscriber list in memory.
type Newsletter struct {
	mu          sync.Mutex
	subscribers map[string]time.Time
	order       []string
	mailer      WelcomeMailer
	now         func() time.Time
}

// NewNewsletter mailer 可以为 nil
func NewNewsletter(mailer WelcomeMailer) *Newsletter {
	return &Newsletter{
		subscribers: make(map[string]time.Time),
		mailer:      mailer,
		now:         time.Now,
	}
}

// Subscribe adds email to the list. Repeated subscriptions (case-insensitive)
// succeed without side effects and report created=false.
func (n *Newsletter) Subscribe(ctx context.Context, email string) (created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	verr := &models.ValidationError{}
	if err := validate.VarCtx(ctx, email, "required,email"); err != nil {
		if err := toValidationError(err, verr); err != nil {
			return false, err
		}
		// Var 校验没有字段名
		for i := range verr.Fields {
			verr.Fields[i].Field = "email"
		}
		return false, verr.Err()
	}

	n.mu.Lock()
	if _, ok := n.subscribers[email]; ok {
		n.mu.Unlock()
		return false, nil
	}
	n.subscribers[email] = n.now()
	n.order = append(n.order, email)
	n.mu.Unlock()

	if n.mailer != nil {
		n.mailer.SendNewsletterWelcome(email)
	}
	return true, nil
}

// Subscribers 按订阅顺序返回
func (n *Newsletter) Subscribers() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}
