package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/laborhours/api/pkg/validator"
)

func TestSMTPRequest_Validation(t *testing.T) {
	v := validator.New()

	valid := SMTPRequest{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer",
		FromEmail: "noreply@example.com",
		FromName:  "Labor Hours",
		UseTLS:    true,
	}
	assert.NoError(t, v.Validate(valid))

	t.Run("port out of range", func(t *testing.T) {
		req := valid
		req.Port = 70000
		assert.Error(t, v.Validate(req))
	})

	t.Run("missing host", func(t *testing.T) {
		req := valid
		req.Host = ""
		assert.Error(t, v.Validate(req))
	})

	t.Run("bad from address", func(t *testing.T) {
		req := valid
		req.FromEmail = "noreply"
		assert.Error(t, v.Validate(req))
	})

	// Empty password is allowed: it means "keep the stored one".
	t.Run("empty password ok", func(t *testing.T) {
		req := valid
		req.Password = ""
		assert.NoError(t, v.Validate(req))
	})
}

func TestTemplateRequest_Validation(t *testing.T) {
	v := validator.New()

	valid := TemplateRequest{
		Type:    "invitation",
		Subject: "Welcome",
		Body:    "Hello {{.FullName}}, your password is {{.Password}}.",
		Active:  true,
	}
	assert.NoError(t, v.Validate(valid))

	t.Run("unknown type", func(t *testing.T) {
		req := valid
		req.Type = "newsletter"
		assert.Error(t, v.Validate(req))
	})

	t.Run("missing body", func(t *testing.T) {
		req := valid
		req.Body = ""
		assert.Error(t, v.Validate(req))
	})
}

func TestInterfaceRequest_Validation(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Validate(InterfaceRequest{
		Title:          "Labor Hours Survey",
		PrimaryColor:   "#1a2b3c",
		SecondaryColor: "#ffffff",
		LoginText:      "Sign in with your work email.",
	}))

	// Colors are optional, the title is not.
	assert.NoError(t, v.Validate(InterfaceRequest{Title: "Labor Hours Survey"}))
	assert.Error(t, v.Validate(InterfaceRequest{}))
	assert.Error(t, v.Validate(InterfaceRequest{Title: "T", PrimaryColor: "blue"}))
}
