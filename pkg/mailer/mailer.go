package mailer

import (
	"fmt"
	"net/smtp"

	"clipnest/internal/config"
)

// Mailer 封装SMTP发信。协议是"尽力而为"：调用方负责吞掉错误，发信失败不拖垮主流程。
type Mailer struct {
	host string
	port string
	from string
	auth smtp.Auth
}

func NewMailer() *Mailer {
	host := config.Get("SMTP_HOST", "localhost")
	user := config.Get("SMTP_USER", "")
	pass := config.Get("SMTP_PASSWORD", "")

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &Mailer{
		host: host,
		port: config.Get("SMTP_PORT", "25"),
		from: config.Get("SMTP_FROM", "noreply@clipnest.local"),
		auth: auth,
	}
}

// Send 发送一封纯文本邮件
func (m *Mailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	return smtp.SendMail(m.host+":"+m.port, m.auth, m.from, []string{to}, []byte(msg))
}
