package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProvider_SignUpThenSignIn(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	created, err := provider.SignUp(ctx, "Ada@Example.com", "strongpassword", "Ada Lovelace")
	require.NoError(t, err)
	assert.NotEmpty(t, created.UID)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, "Ada Lovelace", created.FullName)

	// Sign-in matches the email case-insensitively.
	signedIn, err := provider.SignIn(ctx, "ada@example.com", "strongpassword")
	require.NoError(t, err)
	assert.Equal(t, created.UID, signedIn.UID)
}

func TestMemoryProvider_SignUp_DuplicateEmail(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "ada@example.com", "strongpassword", "Ada")
	require.NoError(t, err)

	_, err = provider.SignUp(ctx, "ADA@example.com", "otherpassword", "Imposter")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestMemoryProvider_SignUp_WeakPassword(t *testing.T) {
	provider := NewMemoryProvider()

	_, err := provider.SignUp(context.Background(), "ada@example.com", "short", "Ada")

	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestMemoryProvider_SignIn_Failures(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "ada@example.com", "strongpassword", "Ada")
	require.NoError(t, err)

	_, err = provider.SignIn(ctx, "nobody@example.com", "strongpassword")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = provider.SignIn(ctx, "ada@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFriendlyMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidCredentials, "Incorrect email or password."},
		{ErrUserNotFound, "No account found with this email."},
		{ErrEmailInUse, "An account with this email already exists."},
		{ErrPasswordTooShort, "Password must be at least 8 characters."},
		{ErrUnavailable, "Sign-in is temporarily unavailable. Please try again."},
		{errors.New("pq: connection refused"), "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FriendlyMessage(tt.err))
	}
}

func TestFriendlyMessage_NeverLeaksInternals(t *testing.T) {
	msg := FriendlyMessage(errors.New("bcrypt: hashedPassword is not the hash of the given password"))

	assert.NotContains(t, msg, "bcrypt")
}
