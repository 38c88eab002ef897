// Package settings provides admin-managed configuration: SMTP delivery,
// email templates, interface branding and the email dispatch log.
package settings

import (
	"strings"
	"time"

	"github.com/laborhours/api/pkg/domain/shared"
)

// SMTPSettings is the single mail delivery configuration row.
type SMTPSettings struct {
	ID        shared.ID `json:"id"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	FromEmail string    `json:"from_email"`
	FromName  string    `json:"from_name"`
	UseTLS    bool      `json:"use_tls"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsConfigured reports whether the settings are complete enough to send.
func (s SMTPSettings) IsConfigured() bool {
	return s.Host != "" && s.Port > 0 && s.FromEmail != ""
}

// TemplateType identifies the purpose of an email template.
type TemplateType string

const (
	TemplateInvitation TemplateType = "invitation"
	TemplateReminder   TemplateType = "reminder"
)

// IsValid checks if the template type is known.
func (t TemplateType) IsValid() bool {
	return t == TemplateInvitation || t == TemplateReminder
}

// EmailTemplate is an admin-editable message template. Subject and body may
// contain {{full_name}}, {{email}}, {{password}} and {{login_url}}
// placeholders.
type EmailTemplate struct {
	ID        shared.ID    `json:"id"`
	Type      TemplateType `json:"type"`
	Subject   string       `json:"subject"`
	Body      string       `json:"body"`
	Active    bool         `json:"is_active"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TemplateData carries the placeholder values for rendering.
type TemplateData struct {
	FullName string
	Email    string
	Password string
	LoginURL string
}

// Render substitutes the placeholders in subject and body.
func (t EmailTemplate) Render(data TemplateData) (subject, body string) {
	r := strings.NewReplacer(
		"{{full_name}}", data.FullName,
		"{{email}}", data.Email,
		"{{password}}", data.Password,
		"{{login_url}}", data.LoginURL,
	)
	return r.Replace(t.Subject), r.Replace(t.Body)
}

// InterfaceSettings is the branding configuration shown on the login and
// questionnaire pages.
type InterfaceSettings struct {
	ID             shared.ID `json:"id"`
	Title          string    `json:"title"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	LoginText      string    `json:"login_text"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DeliveryStatus is the outcome of one email dispatch attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// EmailLog records one dispatch attempt.
type EmailLog struct {
	ID           shared.ID      `json:"id"`
	Recipient    string         `json:"recipient"`
	TemplateType TemplateType   `json:"template_type"`
	Status       DeliveryStatus `json:"status"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewEmailLog records a dispatch outcome. A non-empty sendErr marks the
// attempt failed.
func NewEmailLog(recipient string, tt TemplateType, sendErr string) EmailLog {
	status := DeliverySent
	if sendErr != "" {
		status = DeliveryFailed
	}
	return EmailLog{
		ID:           shared.NewID(),
		Recipient:    recipient,
		TemplateType: tt,
		Status:       status,
		Error:        sendErr,
		CreatedAt:    time.Now().UTC(),
	}
}
