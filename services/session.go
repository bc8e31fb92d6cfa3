package services

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/common/auth"
	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// confirmationTTL is how long verification and reset tokens stay valid.
const confirmationTTL = 24 * time.Hour

// RefreshStore remembers issued refresh token ids so each can be used once.
type RefreshStore interface {
	SaveRefresh(ctx context.Context, jti, subject string, ttl time.Duration) error
	ConsumeRefresh(ctx context.Context, jti string) (string, error)
}

// Sessions issues token pairs for staff and customers and rotates refresh tokens.
type Sessions struct {
	tokens *auth.TokenService
	store  RefreshStore
	admins repository.AdminRepo
	users  repository.UserRepo
	logger *zap.Logger
}

func NewSessions(tokens *auth.TokenService, store RefreshStore, admins repository.AdminRepo, users repository.UserRepo, logger *zap.Logger) *Sessions {
	return &Sessions{tokens: tokens, store: store, admins: admins, users: users, logger: logger}
}

func adminIdentity(a *models.Admin) auth.Identity {
	return auth.Identity{Subject: a.ID.Hex(), Email: a.Email, Name: a.Name, Role: a.Role}
}

func userIdentity(u *models.User) auth.Identity {
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	return auth.Identity{Subject: u.ID.Hex(), Email: u.Email, Name: u.Name, Role: role}
}

// AccessToken signs an access token only.
func (s *Sessions) AccessToken(id auth.Identity) (string, error) {
	token, err := s.tokens.GenerateAccessToken(id)
	if err != nil {
		return "", apperrors.Internal("Failed to generate token", err)
	}
	return token, nil
}

// Issue signs a token pair and records the refresh id.
func (s *Sessions) Issue(ctx context.Context, id auth.Identity) (*auth.TokenPair, error) {
	pair, err := s.tokens.GenerateTokenPair(id)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	if s.store != nil {
		if err := s.store.SaveRefresh(ctx, pair.RefreshID, id.Subject, auth.RefreshTokenTTL); err != nil {
			s.logger.Error("Failed to store refresh token", zap.String("subject", id.Subject), zap.Error(err))
			return nil, apperrors.Internal("Failed to generate token", err)
		}
	}
	return pair, nil
}

// Refresh spends a refresh token and returns a new pair for the same, still active, account.
func (s *Sessions) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if s.store == nil {
		return nil, apperrors.Unavailable("Token refresh is not available")
	}
	claims, err := s.tokens.ParseAndValidate(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}
	identity := auth.IdentityFromClaims(claims)

	subject, err := s.store.ConsumeRefresh(ctx, jti)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid or expired refresh token")
		}
		return nil, apperrors.Internal("Failed to refresh token", err)
	}
	if subject != identity.Subject {
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}

	fresh, err := s.lookup(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.Issue(ctx, fresh)
}

func (s *Sessions) lookup(ctx context.Context, id auth.Identity) (auth.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id.Subject)
	if err != nil {
		return auth.Identity{}, apperrors.Unauthorized("Invalid or expired refresh token")
	}
	if slices.Contains(models.AdminRoles, id.Role) {
		admin, err := s.admins.FindByID(ctx, oid)
		if err != nil || admin.Status == models.StaffStatusInactive {
			return auth.Identity{}, apperrors.Unauthorized("Account is no longer active")
		}
		return adminIdentity(admin), nil
	}
	user, err := s.users.FindByID(ctx, oid)
	if err != nil || user.Status != models.UserStatusActive {
		return auth.Identity{}, apperrors.Unauthorized("Account is no longer active")
	}
	return userIdentity(user), nil
}
