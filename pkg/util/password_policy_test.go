package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	validators := DefaultPasswordValidators()

	tests := []struct {
		name     string
		password string
		username string
		email    string
		wantErr  string
	}{
		{
			name:     "Acceptable password",
			password: "correcthorsebattery",
			username: "alice",
			email:    "alice@example.com",
			wantErr:  "",
		},
		{
			name:     "Too short",
			password: "abc1234",
			username: "alice",
			email:    "alice@example.com",
			wantErr:  "too short",
		},
		{
			name:     "Common password",
			password: "password123",
			username: "alice",
			email:    "alice@example.com",
			wantErr:  "too common",
		},
		{
			name:     "Common password, mixed case",
			password: "QwErTy123",
			username: "alice",
			email:    "alice@example.com",
			wantErr:  "too common",
		},
		{
			name:     "Contains username",
			password: "xx-alice-zz99",
			username: "alice",
			email:    "alice@example.com",
			wantErr:  "too similar",
		},
		{
			name:     "Contains email local part",
			password: "my.handle42x",
			username: "someuser",
			email:    "my.handle@example.com",
			wantErr:  "too similar",
		},
		{
			name:     "Short username is not matched",
			password: "albatross99",
			username: "al",
			email:    "al@example.com",
			wantErr:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.username, tt.email, validators)

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidatePassword_OrderOfChecks(t *testing.T) {
	validators := DefaultPasswordValidators()

	// "admin" is both too short and a common password; the length rule runs
	// first so its message wins.
	err := ValidatePassword("admin", "alice", "alice@example.com", validators)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestMinimumLengthValidator(t *testing.T) {
	v := MinimumLengthValidator{Min: 8}

	assert.Error(t, v.Validate("1234567", "", ""))
	assert.NoError(t, v.Validate("12345678", "", ""))
}
