package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template represents a built-in email template type. Built-ins are the
// fallback when no admin-edited template row is active.
type Template string

const (
	// TemplateInvitation is the account invitation template.
	TemplateInvitation Template = "invitation"
	// TemplateReminder is the questionnaire reminder template.
	TemplateReminder Template = "reminder"
)

// InvitationData holds data for the invitation template.
type InvitationData struct {
	FullName string
	Email    string
	Password string
	LoginURL string
	AppName  string
}

// ReminderData holds data for the reminder template.
type ReminderData struct {
	FullName string
	LoginURL string
	AppName  string
}

// TemplateEngine renders the built-in templates.
type TemplateEngine struct {
	templates map[Template]*templateDef
}

type templateDef struct {
	subjectTmpl *template.Template
	bodyTmpl    *template.Template
}

// NewTemplateEngine creates a template engine with the built-in templates.
func NewTemplateEngine() *TemplateEngine {
	engine := &TemplateEngine{
		templates: make(map[Template]*templateDef),
	}
	engine.registerTemplates()
	return engine
}

// Render renders a template with the given data.
func (e *TemplateEngine) Render(tmpl Template, data any) (subject string, body string, err error) {
	def, ok := e.templates[tmpl]
	if !ok {
		return "", "", fmt.Errorf("template %s not found", tmpl)
	}

	var subjectBuf bytes.Buffer
	if err := def.subjectTmpl.Execute(&subjectBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute subject template: %w", err)
	}

	var bodyBuf bytes.Buffer
	if err := def.bodyTmpl.Execute(&bodyBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute body template: %w", err)
	}

	return subjectBuf.String(), bodyBuf.String(), nil
}

func (e *TemplateEngine) registerTemplates() {
	e.templates[TemplateInvitation] = &templateDef{
		subjectTmpl: template.Must(template.New("invitation_subject").Parse("Your {{.AppName}} account")),
		bodyTmpl:    template.Must(template.New("invitation").Parse(invitationTemplate)),
	}

	e.templates[TemplateReminder] = &templateDef{
		subjectTmpl: template.Must(template.New("reminder_subject").Parse("Reminder: complete your labor-hours report")),
		bodyTmpl:    template.Must(template.New("reminder").Parse(reminderTemplate)),
	}
}

const invitationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Your Account</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .container { background: #ffffff; border-radius: 8px; padding: 40px; border: 1px solid #e0e0e0; }
        .header { text-align: center; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #2563eb; }
        .button { display: inline-block; background: #2563eb; color: #ffffff; padding: 14px 28px; text-decoration: none; border-radius: 6px; font-weight: 600; margin: 20px 0; }
        .credentials { background: #f3f4f6; border-radius: 4px; padding: 16px; margin: 20px 0; font-family: monospace; }
        .warning { background: #fef3c7; border: 1px solid #f59e0b; border-radius: 4px; padding: 12px; margin: 20px 0; font-size: 14px; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #e0e0e0; font-size: 12px; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">{{.AppName}}</div>
        </div>

        <h2>Your account is ready</h2>

        <p>Hi{{if .FullName}} {{.FullName}}{{end}},</p>

        <p>An account has been created for you to report your labor hours. Sign in with the credentials below:</p>

        <div class="credentials">
            Email: {{.Email}}<br>
            Temporary password: {{.Password}}
        </div>

        <div style="text-align: center;">
            <a href="{{.LoginURL}}" class="button">Sign In</a>
        </div>

        <div class="warning">
            You will be asked to choose a new password on first login.
        </div>

        <div class="footer">
            <p>This email was sent to {{.Email}}</p>
            <p>&copy; {{.AppName}}. All rights reserved.</p>
        </div>
    </div>
</body>
</html>`

const reminderTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Reminder</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .container { background: #ffffff; border-radius: 8px; padding: 40px; border: 1px solid #e0e0e0; }
        .header { text-align: center; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #2563eb; }
        .button { display: inline-block; background: #2563eb; color: #ffffff; padding: 14px 28px; text-decoration: none; border-radius: 6px; font-weight: 600; margin: 20px 0; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #e0e0e0; font-size: 12px; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">{{.AppName}}</div>
        </div>

        <h2>Your labor-hours report is waiting</h2>

        <p>Hi{{if .FullName}} {{.FullName}}{{end}},</p>

        <p>You have not submitted your labor-hours report yet. Please sign in and complete it.</p>

        <div style="text-align: center;">
            <a href="{{.LoginURL}}" class="button">Open Questionnaire</a>
        </div>

        <div class="footer">
            <p>&copy; {{.AppName}}. All rights reserved.</p>
        </div>
    </div>
</body>
</html>`
