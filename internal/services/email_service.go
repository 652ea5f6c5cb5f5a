package services

import (
	"context"
	"fmt"

	"subscription-checkout-api/internal/config"
	"subscription-checkout-api/internal/models"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// EmailService sends transactional email via Brevo
type EmailService struct {
	client    *brevo.APIClient
	fromEmail string
	fromName  string
}

// NewEmailService creates a new email service instance. When no API key is
// configured the service is created disabled and sends become no-ops.
func NewEmailService() *EmailService {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", config.AppConfig.BrevoAPIKey)

	return &EmailService{
		client:    brevo.NewAPIClient(cfg),
		fromEmail: config.AppConfig.BrevoFromEmail,
		fromName:  config.AppConfig.BrevoFromName,
	}
}

func (s *EmailService) enabled() bool {
	return config.AppConfig.BrevoAPIKey != "" && s.fromEmail != ""
}

// SendSignInCodeEmail sends a sign-in code email
func (s *EmailService) SendSignInCodeEmail(ctx context.Context, to, code string) error {
	subject := fmt.Sprintf("Your sign-in code - %s", config.AppConfig.ServiceName)
	htmlContent := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px; text-align: center;">
				<h1 style="color: #333; margin-bottom: 20px;">%s</h1>
				<p style="color: #666; font-size: 16px; margin-bottom: 20px;">Your sign-in code is:</p>
				<div style="background-color: #007bff; color: white; padding: 20px; border-radius: 10px; font-size: 32px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
					%s
				</div>
				<p style="color: #999; font-size: 14px; margin-top: 20px;">The code expires in %d minutes. Do not share it with anyone.</p>
				<p style="color: #999; font-size: 12px; margin-top: 30px;">If you did not request this, you can ignore this email.</p>
			</div>
		</body>
		</html>
	`, config.AppConfig.ServiceName, code, config.AppConfig.CodeExpireMinutes)

	textContent := fmt.Sprintf(
		"%s\n\nYour sign-in code is: %s\n\nThe code expires in %d minutes. Do not share it with anyone.",
		config.AppConfig.ServiceName, code, config.AppConfig.CodeExpireMinutes)

	return s.send(ctx, to, subject, htmlContent, textContent)
}

// SendPaymentInvoiceEmail emails the customer a link to complete payment
// for an order awaiting payment
func (s *EmailService) SendPaymentInvoiceEmail(ctx context.Context, customer *models.Customer, order *models.Order, payURL string) error {
	subject := fmt.Sprintf("Complete your payment for order #%d", order.ID)
	htmlContent := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px;">
				<h1 style="color: #333;">Order #%d is awaiting payment</h1>
				<p style="color: #666; font-size: 16px;">Your subscription order for a total of %.2f has not been paid yet.</p>
				<p style="margin: 30px 0; text-align: center;">
					<a href="%s" style="background-color: #007bff; color: white; padding: 15px 30px; border-radius: 10px; text-decoration: none; font-weight: bold;">Pay for this order</a>
				</p>
				<p style="color: #999; font-size: 12px;">If you have already paid, you can ignore this email.</p>
			</div>
		</body>
		</html>
	`, order.ID, order.Total, payURL)

	textContent := fmt.Sprintf(
		"Order #%d is awaiting payment.\n\nTotal: %.2f\n\nComplete your payment here: %s",
		order.ID, order.Total, payURL)

	return s.send(ctx, customer.Email, subject, htmlContent, textContent)
}

// send sends an email via the Brevo transactional API
func (s *EmailService) send(ctx context.Context, to, subject, htmlContent, textContent string) error {
	if !s.enabled() {
		return fmt.Errorf("email service is not configured")
	}

	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  s.fromName,
			Email: s.fromEmail,
		},
		To:          []brevo.SendSmtpEmailTo{{Email: to}},
		Subject:     subject,
		HtmlContent: htmlContent,
		TextContent: textContent,
	}

	_, resp, err := s.client.TransactionalEmailsApi.SendTransacEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp != nil && resp.StatusCode >= 300 {
		return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
	}
	return nil
}
