package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/common/auth"
	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/sender"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ChangePasswordInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password"`
	NewPassword  string `json:"newPassword" validate:"required,min=6"`
	GoogleSignIn bool   `json:"googleSignIn"`
}

type UpdateUserInput struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Bio     string `json:"bio"`
}

// UserLogin is the customer login response.
type UserLogin struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

// UserAuth pairs a customer with a fresh access token.
type UserAuth struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService struct {
	users          repository.UserRepo
	sessions       *Sessions
	mailer         sender.Mailer
	providerSecret []byte
	clientURL      string
	logger         *zap.Logger
	now            func() time.Time
}

func NewUserService(users repository.UserRepo, sessions *Sessions, mailer sender.Mailer, providerSecret, clientURL string, logger *zap.Logger) *UserService {
	return &UserService{
		users:          users,
		sessions:       sessions,
		mailer:         mailer,
		providerSecret: []byte(providerSecret),
		clientURL:      strings.TrimRight(clientURL, "/"),
		logger:         logger,
		now:            time.Now,
	}
}

func (s *UserService) setConfirmation(u *models.User) (string, error) {
	token, err := randomToken(32)
	if err != nil {
		return "", apperrors.Internal("Failed to process request", err)
	}
	expiry := s.now().UTC().Add(confirmationTTL)
	u.ConfirmationToken = token
	u.ConfirmationTokenExpiry = &expiry
	return token, nil
}

// Signup creates an inactive account and mails its activation link.
func (s *UserService) Signup(ctx context.Context, in RegisterInput) error {
	email := normalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return apperrors.Forbidden("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.Internal("Failed to sign up", err)
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	hashed, err := HashPassword(in.Password)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	user := models.User{
		Name:      in.Name,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleUser,
		Status:    models.UserStatusInactive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	token, err := s.setConfirmation(&user)
	if err != nil {
		return err
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.Forbidden("Email already exists")
		}
		return apperrors.Internal("Failed to sign up", err)
	}

	msg, err := sender.VerifyEmail(user.Name, user.Email, s.clientURL+"/email-verify/"+token)
	if err != nil {
		return apperrors.Internal("Failed to send email", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return apperrors.Internal("Failed to send email", err)
	}
	s.logger.Info("User signed up", zap.String("user_id", user.ID.Hex()))
	return nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*UserLogin, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperrors.Unauthorized("Please provide your credentials")
	}
	user, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("No user found. Please create an account")
		}
		return nil, apperrors.Internal("Failed to login", err)
	}
	if !checkPassword(user.Password, in.Password) {
		return nil, apperrors.Forbidden("Password is not correct")
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.Unauthorized("Your account is not active yet.")
	}

	pair, err := s.sessions.Issue(ctx, userIdentity(user))
	if err != nil {
		return nil, err
	}
	return &UserLogin{User: user, Token: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// ConfirmEmail activates the account holding token.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) error {
	user, err := s.users.FindByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Forbidden("Invalid token")
		}
		return apperrors.Internal("Failed to confirm email", err)
	}
	if user.ConfirmationTokenExpiry == nil || s.now().After(*user.ConfirmationTokenExpiry) {
		return apperrors.Unauthorized("Token expired")
	}
	user.Status = models.UserStatusActive
	user.ConfirmationToken = ""
	user.ConfirmationTokenExpiry = nil
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Replace(ctx, user); err != nil {
		return apperrors.Internal("Failed to confirm email", err)
	}
	return nil
}

func (s *UserService) ForgetPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User Not found with this email!")
		}
		return apperrors.Internal("Failed to process request", err)
	}
	token, err := s.setConfirmation(user)
	if err != nil {
		return err
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Replace(ctx, user); err != nil {
		return apperrors.Internal("Failed to process request", err)
	}

	msg, err := sender.PasswordReset(models.MailUserReset, user.Name, user.Email, s.clientURL+"/forget-password/"+token)
	if err != nil {
		return apperrors.Internal("Failed to send email", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return apperrors.Internal("Failed to send email", err)
	}
	return nil
}

func (s *UserService) setPassword(ctx context.Context, user *models.User, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	user.Password = hashed
	user.PasswordChangedAt = &now
	user.UpdatedAt = now
	if err := s.users.Replace(ctx, user); err != nil {
		return apperrors.Internal("Failed to update password", err)
	}
	return nil
}

func (s *UserService) ConfirmForgetPassword(ctx context.Context, token, password string) error {
	user, err := s.users.FindByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Forbidden("Invalid token!")
		}
		return apperrors.Internal("Failed to reset password", err)
	}
	if user.ConfirmationTokenExpiry == nil || s.now().After(*user.ConfirmationTokenExpiry) {
		return apperrors.Unauthorized("Token expired, please try again!")
	}
	user.ConfirmationToken = ""
	user.ConfirmationTokenExpiry = nil
	return s.setPassword(ctx, user, password)
}

// ChangePassword checks the current password unless the account signs in through a provider.
func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		return apperrors.Internal("Failed to change password", err)
	}
	if !(in.GoogleSignIn && user.GoogleSignIn) && !checkPassword(user.Password, in.Password) {
		return apperrors.Unauthorized("Incorrect current password")
	}
	return s.setPassword(ctx, user, in.NewPassword)
}

func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, in UpdateUserInput) (*UserAuth, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = normalizeEmail(in.Email)
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Address != "" {
		user.Address = in.Address
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Replace(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Email already exists")
		}
		return nil, notFoundOr(err, "User not found")
	}

	token, err := s.sessions.AccessToken(userIdentity(user))
	if err != nil {
		return nil, err
	}
	return &UserAuth{Token: token, User: user}, nil
}

// SignUpWithProvider trusts an identity token signed with the provider secret and
// creates or activates the matching account.
func (s *UserService) SignUpWithProvider(ctx context.Context, token string) (*UserAuth, error) {
	if len(s.providerSecret) == 0 {
		return nil, apperrors.Unavailable("Provider sign-in is not configured")
	}
	claims, err := auth.ParseHMAC(token, s.providerSecret, "")
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	now := s.now().UTC()
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		user.GoogleSignIn = true
		user.Status = models.UserStatusActive
		if user.ImageURL == "" {
			user.ImageURL = picture
		}
		user.UpdatedAt = now
		if err := s.users.Replace(ctx, user); err != nil {
			return nil, apperrors.Internal("Failed to sign in", err)
		}
	case errors.Is(err, repository.ErrNotFound):
		user = &models.User{
			Name:         name,
			Email:        email,
			ImageURL:     picture,
			Role:         models.RoleUser,
			Status:       models.UserStatusActive,
			GoogleSignIn: true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, apperrors.Internal("Failed to sign in", err)
		}
		s.logger.Info("User signed up with provider", zap.String("user_id", user.ID.Hex()))
	default:
		return nil, apperrors.Internal("Failed to sign in", err)
	}

	access, err := s.sessions.AccessToken(userIdentity(user))
	if err != nil {
		return nil, err
	}
	return &UserAuth{Token: access, User: user}, nil
}
