package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_roundTrip(t *testing.T) {
	encoded, err := HashPassword("hulk-smash-2024")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := VerifyPassword("hulk-smash-2024", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_uniqueSalt(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyPassword_malformedHash(t *testing.T) {
	_, err := VerifyPassword("anything", "not-an-encoded-hash")
	assert.Error(t, err)
}

func TestValidateRegistration(t *testing.T) {
	valid := Registration{
		Username: "peterparker",
		Password: "withgreatpower",
		Email:    "peter@dailybugle.com",
	}

	tests := []struct {
		name      string
		mutate    func(r *Registration)
		wantField string
	}{
		{name: "valid", mutate: func(r *Registration) {}},
		{name: "username too short", mutate: func(r *Registration) { r.Username = "pet" }, wantField: "username"},
		{name: "username too long", mutate: func(r *Registration) { r.Username = strings.Repeat("p", 17) }, wantField: "username"},
		{name: "username with space", mutate: func(r *Registration) { r.Username = "peter parker" }, wantField: "username"},
		{name: "password too short", mutate: func(r *Registration) { r.Password = "short6" }, wantField: "password"},
		{name: "email without at", mutate: func(r *Registration) { r.Email = "peter.dailybugle.com" }, wantField: "email"},
		{name: "email without domain dot", mutate: func(r *Registration) { r.Email = "peter@dailybugle" }, wantField: "email"},
		{name: "email with space", mutate: func(r *Registration) { r.Email = "peter @dailybugle.com" }, wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := valid
			tt.mutate(&reg)
			err := validateRegistration(reg)

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}
