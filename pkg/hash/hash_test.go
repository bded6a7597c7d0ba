package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", h)

	assert.True(t, CheckPassword(h, "secret1"))
	assert.False(t, CheckPassword(h, "secret2"))
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("", ""))
	assert.False(t, CheckPassword("", "anything"))
}

func TestHashPassword_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "empty", password: "", wantErr: ErrEmptyPassword},
		{name: "too long", password: strings.Repeat("k", 73), wantErr: bcrypt.ErrPasswordTooLong},
	}
	for _, tt := range tests {
		_, err := HashPassword(tt.password)
		assert.ErrorIs(t, err, tt.wantErr, tt.name)
	}
}
