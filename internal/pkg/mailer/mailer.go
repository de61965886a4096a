package mailer

import (
	"fmt"

	"desitasty_backend/internal/pkg/config"

	"gopkg.in/gomail.v2"
)

// Mailer 邮件通知服务
type Mailer interface {
	SendOrderConfirmation(to string, orderNo string, amount int64, currency string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer 创建 SMTP 邮件服务
// 配置缺失时返回错误，调用方可以选择不注册邮件通知
func NewSMTPMailer() (Mailer, error) {
	cfg := config.GlobalConfig.Email
	if cfg.SMTPHost == "" || cfg.From == "" {
		return nil, fmt.Errorf("email config is missing")
	}

	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

func (m *smtpMailer) SendOrderConfirmation(to string, orderNo string, amount int64, currency string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Thank you for your order!")
	msg.SetBody("text/html", confirmationBody(orderNo, amount, currency))

	return m.dialer.DialAndSend(msg)
}

// confirmationBody 支付成功邮件模板
// 金额以最小货币单位存储，展示时换算成元
func confirmationBody(orderNo string, amount int64, currency string) string {
	return fmt.Sprintf(`<html><body>
<h2>Your order is confirmed</h2>
<p>Order reference: <strong>%s</strong></p>
<p>Amount paid: <strong>%.2f %s</strong></p>
<p>We are preparing your order and will notify you when it ships.</p>
</body></html>`, orderNo, float64(amount)/100, currency)
}
