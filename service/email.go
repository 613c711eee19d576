package service

import (
	"context"
	"fmt"
	"html"

	"ecgenius/config"
	"ecgenius/models"

	"gopkg.in/gomail.v2"
)

// Notifier 登记成功通知
type Notifier interface {
	NotifyRegistration(ctx context.Context, rec *models.PredictionRecord) error
}

// EmailService 邮件服务：登记成功后通知值班医生
// 邮件只包含预测编号与诊断结果，不含患者姓名和手机号
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// Enabled 是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled && s.cfg.To != ""
}

// NotifyRegistration 发送登记通知，未启用时直接返回
func (s *EmailService) NotifyRegistration(ctx context.Context, rec *models.PredictionRecord) error {
	if !s.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := fmt.Sprintf("[ECGenius] Patient registered for prediction %s", rec.PredictionID)
	return s.sendEmail(s.cfg.To, subject, s.generateRegistrationEmailBody(rec))
}

// generateRegistrationEmailBody 生成登记通知邮件内容
func (s *EmailService) generateRegistrationEmailBody(rec *models.PredictionRecord) string {
	flag := func(b bool) string {
		if b {
			return "<strong style=\"color:#dc2626\">detected</strong>"
		}
		return "not detected"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>ECGenius - Healthy Heart - Anytime, Anywhere</h2>
    <p>A patient has been registered against prediction <strong>%s</strong> (recorded %s).</p>
    <table cellpadding="6" style="border-collapse: collapse;">
        <tr><td>Atrial fibrillation</td><td>%s</td></tr>
        <tr><td>Bundle branch block</td><td>%s</td></tr>
        <tr><td>Myocardial infarction</td><td>%s</td></tr>
        <tr><td>Ventricular fibrillation</td><td>%s</td></tr>
        <tr><td>Heart rate</td><td>%.1f bpm</td></tr>
        <tr><td>Samples</td><td>%d</td></tr>
    </table>
    <p style="color: #666;">Use /get_report with this prediction id to retrieve the full report.</p>
</body>
</html>
`,
		html.EscapeString(rec.PredictionID), html.EscapeString(rec.Timestamp),
		flag(rec.IsAFib), flag(rec.IsBBB), flag(rec.IsMCI), flag(rec.IsVFI),
		rec.HeartRate, len(rec.Samples))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
