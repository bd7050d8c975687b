package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var mailTemplates embed.FS

// MailConfig SMTP 配置，任意一项为空则不发送邮件
type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	SiteURL  string
}

type MailService struct {
	cfg       MailConfig
	Enabled   bool
	templates *template.Template
	logger    *zap.SugaredLogger

	// send 默认为 smtp.SendMail，测试中可替换
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailService(cfg MailConfig, logger *zap.SugaredLogger) *MailService {
	enabled := cfg.Host != "" && cfg.Port != "" && cfg.Username != "" && cfg.Password != "" && cfg.From != ""
	if !enabled {
		logger.Warn("mail service disabled: missing SMTP configuration")
	}

	return &MailService{
		cfg:       cfg,
		Enabled:   enabled,
		templates: template.Must(template.ParseFS(mailTemplates, "templates/*.html")),
		logger:    logger,
		send:      smtp.SendMail,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		if err := s.deliver(to, subject, body); err != nil {
			s.logger.Errorw("failed to send email", "to", to, "error", err)
			return
		}
		s.logger.Infow("email sent", "to", to, "subject", subject)
	}()
}

func (s *MailService) deliver(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: Inkwell <%s>\r\n"+
		"Subject: %s\r\n"+
		"%s\r\n%s", strings.Join(to, ","), s.cfg.From, subject, mime, body))

	return s.send(addr, auth, s.cfg.From, to, msg)
}

func (s *MailService) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// SendNewsletterWelcome 订阅成功后的欢迎邮件
func (s *MailService) SendNewsletterWelcome(email string) {
	body, err := s.render("newsletter_welcome.html", map[string]string{
		"Email":   email,
		"SiteURL": s.cfg.SiteURL,
	})
	if err != nil {
		s.logger.Errorw("render newsletter email", "error", err)
		return
	}
	s.sendAsync([]string{email}, "Welcome to the Inkwell newsletter", body)
}
