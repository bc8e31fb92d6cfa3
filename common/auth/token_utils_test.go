package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenPair(t *testing.T) {
	s := NewTokenService("unit-secret")
	id := Identity{Subject: "65f0c0ffee65f0c0ffee65f0", Email: "a@b.c", Name: "Asha", Role: "user"}

	pair, err := s.GenerateTokenPair(id)
	require.NoError(t, err)
	require.NotEmpty(t, pair.RefreshID)

	claims, err := s.ParseAndValidate(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, id, IdentityFromClaims(claims))
	_, hasJTI := claims["jti"]
	assert.False(t, hasJTI, "access tokens carry no jti")

	claims, err = s.ParseAndValidate(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshID, claims["jti"])

	_, err = s.ParseAndValidate(pair.RefreshToken, TokenTypeAccess)
	assert.Error(t, err)
}

func TestParseAndValidate_Expired(t *testing.T) {
	s := NewTokenService("unit-secret")
	s.now = func() time.Time { return time.Now().Add(-AccessTokenTTL - time.Minute) }

	token, err := s.GenerateAccessToken(Identity{Subject: "x"})
	require.NoError(t, err)

	_, err = s.ParseAndValidate(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseHMAC(t *testing.T) {
	_, err := ParseHMAC("anything", nil, "")
	assert.Error(t, err)

	signed, err := SignClaims(jwt.MapClaims{"email": "a@b.c"}, []byte("k1"))
	require.NoError(t, err)

	claims, err := ParseHMAC(signed, []byte("k1"), "")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", claims["email"])

	_, err = ParseHMAC(signed, []byte("k2"), "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "a@b.c"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseHMAC(none, []byte("k1"), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
