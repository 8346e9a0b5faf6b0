package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/wneessen/go-mail"

	"github.com/tillpoint/pos-api/internal/domain/entity"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// passwordResetURL builds the frontend link embedded in reset emails
func (s *EmailService) passwordResetURL(toEmail, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.config.FrontendURL,
		url.QueryEscape(token),
		url.QueryEscape(toEmail),
	)
}

// SendPasswordResetEmail sends a password reset email
func (s *EmailService) SendPasswordResetEmail(toEmail, token string) error {
	resetURL := s.passwordResetURL(toEmail, token)

	htmlContent, err := s.renderTemplate("password_reset", passwordResetTemplate, struct {
		Email    string
		ResetURL string
		AppName  string
	}{
		Email:    toEmail,
		ResetURL: resetURL,
		AppName:  s.config.FromName,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Reset Your Password - %s", s.config.FromName)
	return s.send(toEmail, subject, htmlContent, nil)
}

// SendReceiptEmail sends an e-receipt for a completed sale, optionally with a
// PNG attachment of the receipt lookup QR code.
func (s *EmailService) SendReceiptEmail(toEmail string, receipt *entity.Receipt, qrAttachment []byte) error {
	htmlContent, err := s.renderTemplate("receipt", receiptTemplate, receipt)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Receipt %s - %s", receipt.InvoiceNo, receipt.Header.StoreName)
	return s.send(toEmail, subject, htmlContent, qrAttachment)
}

// send delivers an HTML email over SMTP
func (s *EmailService) send(to, subject, htmlBody string, attachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.FromFormat(s.config.FromName, s.config.FromEmail); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if attachment != nil {
		msg.AttachReader("receipt-qr.png", bytes.NewReader(attachment))
	}

	client, err := mail.NewClient(s.config.SMTPHost,
		mail.WithPort(s.config.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.config.SMTPUsername),
		mail.WithPassword(s.config.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// renderTemplate renders an HTML email template
func (s *EmailService) renderTemplate(name, tmplText string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// passwordResetTemplate is the HTML template for password reset emails
const passwordResetTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Reset Your Password</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
                    <tr>
                        <td style="background-color: #1a1a2e; padding: 40px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 28px; font-weight: 600;">{{.AppName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 40px 30px;">
                            <h2 style="color: #1a1a2e; margin: 0 0 20px 0; font-size: 24px; font-weight: 600;">Reset Your Password</h2>
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 20px 0;">
                                We received a request to reset the password for the account associated with <strong>{{.Email}}</strong>.
                            </p>
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 30px 0;">
                                Click the button below to reset your password. This link will expire in <strong>1 hour</strong>.
                            </p>
                            <table role="presentation" style="margin: 0 auto 30px auto;">
                                <tr>
                                    <td style="background-color: #1a1a2e; border-radius: 8px;">
                                        <a href="{{.ResetURL}}" style="display: inline-block; padding: 16px 32px; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 600;">
                                            Reset Password
                                        </a>
                                    </td>
                                </tr>
                            </table>
                            <p style="color: #718096; font-size: 14px; line-height: 1.6; margin: 0 0 20px 0;">
                                If you didn't request this password reset, you can safely ignore this email. Your password will remain unchanged.
                            </p>
                            <p style="color: #718096; font-size: 14px; line-height: 1.6; margin: 0;">
                                If the button above doesn't work, copy and paste this link into your browser:
                            </p>
                            <p style="font-size: 14px; line-height: 1.6; margin: 10px 0 0 0; word-break: break-all;">
                                <a href="{{.ResetURL}}">{{.ResetURL}}</a>
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`

// receiptTemplate is the HTML template for e-receipt emails
const receiptTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Your Receipt</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
                    <tr>
                        <td style="background-color: #1a1a2e; padding: 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 24px; font-weight: 600;">{{.Header.StoreName}}</h1>
                            {{if .Header.Address}}<p style="color: #cbd5e0; margin: 8px 0 0 0; font-size: 14px;">{{.Header.Address}}</p>{{end}}
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 30px;">
                            <p style="color: #4a5568; font-size: 14px; margin: 0 0 4px 0;">Invoice: <strong>{{.InvoiceNo}}</strong></p>
                            <p style="color: #4a5568; font-size: 14px; margin: 0 0 4px 0;">Date: {{.Date}}</p>
                            {{if .Cashier}}<p style="color: #4a5568; font-size: 14px; margin: 0 0 4px 0;">Served by: {{.Cashier}}</p>{{end}}
                            {{if .Customer}}<p style="color: #4a5568; font-size: 14px; margin: 0 0 20px 0;">Customer: {{.Customer}}</p>{{end}}
                            <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
                                <thead>
                                    <tr style="background-color: #f0f0f0;">
                                        <th style="padding: 10px; text-align: left; border-bottom: 1px solid #ddd;">Item</th>
                                        <th style="padding: 10px; text-align: right; border-bottom: 1px solid #ddd;">Qty</th>
                                        <th style="padding: 10px; text-align: right; border-bottom: 1px solid #ddd;">Price</th>
                                        <th style="padding: 10px; text-align: right; border-bottom: 1px solid #ddd;">Total</th>
                                    </tr>
                                </thead>
                                <tbody>
                                    {{range .Items}}
                                    <tr>
                                        <td style="padding: 8px 10px; border-bottom: 1px solid #eee;">{{.Name}}</td>
                                        <td style="padding: 8px 10px; text-align: right; border-bottom: 1px solid #eee;">{{.Quantity}}</td>
                                        <td style="padding: 8px 10px; text-align: right; border-bottom: 1px solid #eee;">{{printf "%.2f" .UnitPrice}}</td>
                                        <td style="padding: 8px 10px; text-align: right; border-bottom: 1px solid #eee;">{{printf "%.2f" .Total}}</td>
                                    </tr>
                                    {{end}}
                                </tbody>
                                <tfoot>
                                    <tr>
                                        <td colspan="3" style="padding: 8px 10px; text-align: right;">Subtotal:</td>
                                        <td style="padding: 8px 10px; text-align: right;">{{printf "%.2f" .SubTotal}}</td>
                                    </tr>
                                    <tr>
                                        <td colspan="3" style="padding: 8px 10px; text-align: right;">Tax:</td>
                                        <td style="padding: 8px 10px; text-align: right;">{{printf "%.2f" .Tax}}</td>
                                    </tr>
                                    <tr>
                                        <td colspan="3" style="padding: 8px 10px; text-align: right; font-weight: bold;">Total:</td>
                                        <td style="padding: 8px 10px; text-align: right; font-weight: bold;">{{printf "%.2f" .Total}} {{.Currency}}</td>
                                    </tr>
                                    <tr>
                                        <td colspan="3" style="padding: 8px 10px; text-align: right;">Paid:</td>
                                        <td style="padding: 8px 10px; text-align: right;">{{printf "%.2f" .Paid}}</td>
                                    </tr>
                                    {{if gt .Change 0.0}}
                                    <tr>
                                        <td colspan="3" style="padding: 8px 10px; text-align: right;">Change:</td>
                                        <td style="padding: 8px 10px; text-align: right;">{{printf "%.2f" .Change}}</td>
                                    </tr>
                                    {{end}}
                                    {{if gt .Due 0.0}}
                                    <tr>
                                        <td colspan="3" style="padding: 8px 10px; text-align: right; color: #c53030;">Balance due:</td>
                                        <td style="padding: 8px 10px; text-align: right; color: #c53030;">{{printf "%.2f" .Due}}</td>
                                    </tr>
                                    {{end}}
                                </tfoot>
                            </table>
                            {{if .Footer}}
                            <p style="color: #718096; font-size: 14px; text-align: center; margin: 20px 0 0 0;">{{.Footer}}</p>
                            {{end}}
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
