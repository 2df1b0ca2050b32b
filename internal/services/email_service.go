package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
	"github.com/rvaldez/rentora-api/internal/config"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// EmailService sends transactional email through Resend. When no API key is
// configured every send becomes a logged no-op so development environments
// work without credentials.
type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) enabled() bool {
	return s.config.ResendAPIKey != "" && s.config.FromEmail != ""
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *EmailService) send(to, subject, body string) error {
	if !s.enabled() {
		logger.Debug("Email disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("[Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

// SendRentReminder notifies a tenant that rent is due tomorrow
func (s *EmailService) SendRentReminder(ctx context.Context, tenant *models.User, payment *models.Payment) error {
	data := struct {
		Name       string
		UnitNumber string
		Month      string
		Amount     string
		DueDate    string
	}{
		Name:       tenant.FullName,
		UnitNumber: payment.UnitNumber,
		Month:      payment.MonthLabel,
		Amount:     fmt.Sprintf("%.2f", payment.Amount),
		DueDate:    payment.DueDate.Format("January 2, 2006"),
	}

	body, err := s.renderTemplate("rent_reminder.html", data)
	if err != nil {
		return err
	}

	return s.send(tenant.Email, "Rent payment due tomorrow", body)
}

// SendRentOverdue notifies a tenant about an overdue rent payment
func (s *EmailService) SendRentOverdue(ctx context.Context, tenant *models.User, payment *models.Payment) error {
	data := struct {
		Name        string
		UnitNumber  string
		Month       string
		Amount      string
		OverdueDays int
	}{
		Name:        tenant.FullName,
		UnitNumber:  payment.UnitNumber,
		Month:       payment.MonthLabel,
		Amount:      fmt.Sprintf("%.2f", payment.Amount),
		OverdueDays: payment.OverdueDays(),
	}

	body, err := s.renderTemplate("rent_overdue.html", data)
	if err != nil {
		return err
	}

	return s.send(tenant.Email, "Rent payment overdue", body)
}

// SendLeaseActivated welcomes a tenant after a successful move-in
func (s *EmailService) SendLeaseActivated(ctx context.Context, tenant *models.User, lease *models.Lease) error {
	data := struct {
		Name            string
		AgreementNumber string
		StartDate       string
		EndDate         string
		MonthlyRent     string
	}{
		Name:            tenant.FullName,
		AgreementNumber: lease.AgreementNumber,
		StartDate:       lease.LeaseStartDate.Format("January 2, 2006"),
		EndDate:         lease.LeaseEndDate.Format("January 2, 2006"),
		MonthlyRent:     fmt.Sprintf("%.2f", lease.MonthlyRent),
	}

	body, err := s.renderTemplate("lease_activated.html", data)
	if err != nil {
		return err
	}

	return s.send(tenant.Email, "Your lease is active", body)
}
