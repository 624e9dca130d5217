package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)

	signed, err := tokens.Issue("crio.do")
	require.NoError(t, err)

	username, err := tokens.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "crio.do", username)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	signed, err := tokens.Issue("crio.do")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other-secret", time.Hour).Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("crio.do")
	require.NoError(t, err)
	_, err = tokens.Validate(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
