package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

func TestNewIdentity(t *testing.T) {
	t.Parallel()

	t.Run("full claims", func(t *testing.T) {
		t.Parallel()
		identity, err := NewIdentity("user-123", "dev@example.com", "Dev User")
		require.NoError(t, err)
		assert.Equal(t, "user-123", identity.SubjectID())
		assert.Equal(t, "dev@example.com", identity.Email())
		assert.Equal(t, "Dev User", identity.DisplayName())
	})

	t.Run("optional claims empty", func(t *testing.T) {
		t.Parallel()
		identity, err := NewIdentity("user-123", "", "")
		require.NoError(t, err)
		assert.Equal(t, "user-123", identity.SubjectID())
		assert.Empty(t, identity.Email())
	})

	t.Run("empty subject rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewIdentity("", "dev@example.com", "Dev User")
		require.Error(t, err)
		assert.True(t, taskerr.HasCode(err, taskerr.CodeAuthenticationMissingSubject))
	})
}

func TestIdentity_Owns(t *testing.T) {
	t.Parallel()

	identity, err := NewIdentity("user-123", "", "")
	require.NoError(t, err)

	assert.True(t, identity.Owns("user-123"))
	assert.False(t, identity.Owns("user-456"))
	assert.False(t, identity.Owns(""))
	assert.False(t, identity.Owns("USER-123"), "ownership comparison is case sensitive")

	var zero Identity
	assert.False(t, zero.Owns(""), "zero identity owns nothing")
}

func TestContextIdentityRoundTrip(t *testing.T) {
	t.Parallel()

	identity, err := NewIdentity("user-123", "", "")
	require.NoError(t, err)

	ctx := ContextWithIdentity(context.Background(), identity)
	got, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, identity, got)

	_, ok = IdentityFromContext(context.Background())
	assert.False(t, ok)

	assert.Panics(t, func() {
		MustIdentityFromContext(context.Background())
	})
}
