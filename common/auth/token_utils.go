package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	AccessTokenTTL  = 48 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is what a token says about its bearer.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Role    string
}

// TokenPair holds the generated access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	RefreshID    string `json:"-"`
}

// TokenService signs and verifies HS256 tokens with one shared secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// GenerateAccessToken issues a short-lived bearer token.
func (s *TokenService) GenerateAccessToken(id Identity) (string, error) {
	return s.sign(id, TokenTypeAccess, AccessTokenTTL, "")
}

// GenerateTokenPair issues an access token and a refresh token; RefreshID is the refresh jti.
func (s *TokenService) GenerateTokenPair(id Identity) (*TokenPair, error) {
	access, err := s.sign(id, TokenTypeAccess, AccessTokenTTL, "")
	if err != nil {
		return nil, err
	}
	jti := uuid.NewString()
	refresh, err := s.sign(id, TokenTypeRefresh, RefreshTokenTTL, jti)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, RefreshID: jti}, nil
}

// ParseAndValidate verifies tokenStr and, when expectedType is non-empty, its "typ" claim.
func (s *TokenService) ParseAndValidate(tokenStr, expectedType string) (jwt.MapClaims, error) {
	return ParseHMAC(tokenStr, s.secret, expectedType)
}

func (s *TokenService) sign(id Identity, typ string, ttl time.Duration, jti string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   id.Subject,
		"email": id.Email,
		"name":  id.Name,
		"role":  id.Role,
		"typ":   typ,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	if jti != "" {
		claims["jti"] = jti
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// ParseHMAC parses an HS256 token signed with secret.
func ParseHMAC(tokenStr string, secret []byte, expectedType string) (jwt.MapClaims, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if expectedType != "" {
		if typ, _ := claims["typ"].(string); typ != expectedType {
			return nil, fmt.Errorf("invalid token type")
		}
	}
	return claims, nil
}

// IdentityFromClaims reads the identity claims of a verified token.
func IdentityFromClaims(claims jwt.MapClaims) Identity {
	str := func(key string) string {
		v, _ := claims[key].(string)
		return v
	}
	return Identity{Subject: str("sub"), Email: str("email"), Name: str("name"), Role: str("role")}
}

// SignClaims signs arbitrary claims with secret. Used for one-off verification tokens.
func SignClaims(claims jwt.MapClaims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
