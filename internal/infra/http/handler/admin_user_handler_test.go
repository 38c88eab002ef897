package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/laborhours/api/pkg/validator"
)

func TestCreateUserRequest_Validation(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr bool
	}{
		{
			name: "valid minimal",
			req:  CreateUserRequest{Email: "anna@example.com", FullName: "Anna Example"},
		},
		{
			name: "valid with role and processes",
			req: CreateUserRequest{
				Email:     "bo@example.com",
				FullName:  "Bo Example",
				Role:      "admin",
				Processes: []string{"1", "3"},
			},
		},
		{
			name:    "missing email",
			req:     CreateUserRequest{FullName: "Anna Example"},
			wantErr: true,
		},
		{
			name:    "malformed email",
			req:     CreateUserRequest{Email: "not-an-email", FullName: "Anna Example"},
			wantErr: true,
		},
		{
			name:    "missing full name",
			req:     CreateUserRequest{Email: "anna@example.com"},
			wantErr: true,
		},
		{
			name:    "unknown role",
			req:     CreateUserRequest{Email: "anna@example.com", FullName: "Anna", Role: "superuser"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBulkCreateRequest_Validation(t *testing.T) {
	v := validator.New()

	t.Run("valid batch", func(t *testing.T) {
		req := BulkCreateRequest{Users: []BulkCreateItem{
			{Email: "a@example.com", FullName: "A", Processes: []string{"1"}},
			{Email: "b@example.com", FullName: "B"},
		}}
		assert.NoError(t, v.Validate(req))
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		assert.Error(t, v.Validate(BulkCreateRequest{}))
		assert.Error(t, v.Validate(BulkCreateRequest{Users: []BulkCreateItem{}}))
	})

	t.Run("dive catches bad row", func(t *testing.T) {
		req := BulkCreateRequest{Users: []BulkCreateItem{
			{Email: "ok@example.com", FullName: "OK"},
			{Email: "", FullName: "No Email"},
		}}
		assert.Error(t, v.Validate(req))
	})
}

func TestBulkDeleteRequest_Validation(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Validate(BulkDeleteRequest{UserIDs: []string{"550e8400-e29b-41d4-a716-446655440000"}}))
	assert.Error(t, v.Validate(BulkDeleteRequest{}))
	assert.Error(t, v.Validate(BulkDeleteRequest{UserIDs: []string{}}))
}

func TestBulkResendRequest_Validation(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Validate(BulkResendRequest{UserIDs: []string{"550e8400-e29b-41d4-a716-446655440000"}}))
	assert.Error(t, v.Validate(BulkResendRequest{}))
	assert.Error(t, v.Validate(BulkResendRequest{UserIDs: []string{}}))
}

func TestSetStatusRequest_Validation(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Validate(SetStatusRequest{Status: "active"}))
	assert.NoError(t, v.Validate(SetStatusRequest{Status: "inactive"}))
	assert.Error(t, v.Validate(SetStatusRequest{Status: "disabled"}))
	assert.Error(t, v.Validate(SetStatusRequest{}))
}

func TestChangeRoleRequest_Validation(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Validate(ChangeRoleRequest{Role: "admin"}))
	assert.NoError(t, v.Validate(ChangeRoleRequest{Role: "user"}))
	assert.Error(t, v.Validate(ChangeRoleRequest{Role: "root"}))
	assert.Error(t, v.Validate(ChangeRoleRequest{}))
}
