package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		email     string
		password  string
		wantField string
	}{
		{"valid", "tim", "tim@example.com", "secret", ""},
		{"email without at", "tim", "not-an-email", "secret", "email"},
		{"username too short", "ab", "tim@example.com", "secret", "username"},
		{"username with at", "tim@home", "tim@example.com", "secret", "username"},
		{"password too short", "tim", "tim@example.com", "abc", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ValidateRegister(tt.username, tt.email, tt.password)
			if tt.wantField == "" {
				assert.Nil(t, fields)
				return
			}
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantField, fields[0].Field)
			assert.NotEmpty(t, fields[0].Message)
		})
	}
}

func TestNormalizeVote(t *testing.T) {
	assert.Equal(t, 1, NormalizeVote(1))
	assert.Equal(t, 1, NormalizeVote(12))
	assert.Equal(t, -1, NormalizeVote(-1))
	assert.Equal(t, -1, NormalizeVote(-12))
	// zero is not a vote direction, it collapses to a downvote
	assert.Equal(t, -1, NormalizeVote(0))
}
