package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createUserRequest struct {
	Email     string   `validate:"required,email"`
	FullName  string   `validate:"required,min=2"`
	Role      string   `validate:"required,user_role"`
	Processes []string `validate:"required,min=1,dive,process_index"`
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		req       createUserRequest
		wantField string
	}{
		{
			name: "valid",
			req: createUserRequest{
				Email:     "alice@example.com",
				FullName:  "Alice",
				Role:      "user",
				Processes: []string{"1", "2.3"},
			},
		},
		{
			name: "bad email",
			req: createUserRequest{
				Email:     "nope",
				FullName:  "Alice",
				Role:      "user",
				Processes: []string{"1"},
			},
			wantField: "email",
		},
		{
			name: "unknown role",
			req: createUserRequest{
				Email:     "alice@example.com",
				FullName:  "Alice",
				Role:      "superuser",
				Processes: []string{"1"},
			},
			wantField: "role",
		},
		{
			name: "bad process index",
			req: createUserRequest{
				Email:     "alice@example.com",
				FullName:  "Alice",
				Role:      "admin",
				Processes: []string{"1", "x.y"},
			},
			wantField: "processes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.NotEmpty(t, verrs)
			assert.Contains(t, verrs[0].Field, tt.wantField)
		})
	}
}

func TestValidator_HexColor(t *testing.T) {
	v := New()

	type branding struct {
		Color string `validate:"required,hex_color"`
	}

	assert.NoError(t, v.Validate(branding{Color: "#1A2b3c"}))
	assert.Error(t, v.Validate(branding{Color: "blue"}))
}
