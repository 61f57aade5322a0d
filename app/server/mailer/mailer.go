package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Mailer 是通知投递的协作方接口。投递失败属于基础设施错误，
// 调用方不应把失败细节暴露给终端用户。
type Mailer interface {
	Send(to string, subject string, body string) error
}

type SMTP struct {
	host     string
	addr     string
	username string
	password string
	from     string
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	return &SMTP{
		host:     host,
		addr:     fmt.Sprintf("%s:%d", host, port),
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTP) Send(to string, subject string, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

// Log 在没有配置 SMTP 时使用，只把邮件内容写进日志，方便本地调试
type Log struct {
	l *zap.Logger
}

func NewLog(l *zap.Logger) *Log {
	return &Log{l: l}
}

func (m *Log) Send(to string, subject string, body string) error {
	m.l.Info("mail (dry-run)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)

	return nil
}
