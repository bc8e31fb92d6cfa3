package services

import (
	"context"
	"errors"
	"slices"
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

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type StaffInput struct {
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	Phone       string     `json:"phone"`
	Image       string     `json:"image"`
	Address     string     `json:"address"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
	Role        string     `json:"role" validate:"omitempty,oneof=Admin 'Super Admin' Manager CEO"`
	JoiningDate *time.Time `json:"joiningDate"`
}

// AdminAuth is the register response.
type AdminAuth struct {
	Token string             `json:"token"`
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  string             `json:"role"`
}

// AdminLogin is the login response.
type AdminLogin struct {
	Token        string             `json:"token"`
	RefreshToken string             `json:"refreshToken"`
	ID           primitive.ObjectID `json:"_id"`
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Email        string             `json:"email"`
	Image        string             `json:"image"`
	Role         string             `json:"role"`
}

type AdminService struct {
	admins       repository.AdminRepo
	sessions     *Sessions
	mailer       sender.Mailer
	verifySecret []byte
	adminURL     string
	logger       *zap.Logger
	now          func() time.Time
}

func NewAdminService(admins repository.AdminRepo, sessions *Sessions, mailer sender.Mailer, verifySecret, adminURL string, logger *zap.Logger) *AdminService {
	return &AdminService{
		admins:       admins,
		sessions:     sessions,
		mailer:       mailer,
		verifySecret: []byte(verifySecret),
		adminURL:     strings.TrimRight(adminURL, "/"),
		logger:       logger,
		now:          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AdminService) Register(ctx context.Context, in RegisterInput) (*AdminAuth, error) {
	role := in.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if !slices.Contains(models.AdminRoles, role) {
		return nil, apperrors.BadRequest("Invalid staff role")
	}
	email := normalizeEmail(in.Email)
	if _, err := s.admins.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Forbidden("This Email already Added!")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Failed to register", err)
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	admin := models.Admin{
		Name:      in.Name,
		Email:     email,
		Password:  hashed,
		Role:      role,
		Status:    models.StaffStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.admins.Create(ctx, &admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Forbidden("This Email already Added!")
		}
		return nil, apperrors.Internal("Failed to register", err)
	}

	token, err := s.sessions.AccessToken(adminIdentity(&admin))
	if err != nil {
		return nil, err
	}
	s.logger.Info("Admin registered", zap.String("admin_id", admin.ID.Hex()), zap.String("role", role))
	return &AdminAuth{Token: token, ID: admin.ID, Name: admin.Name, Email: admin.Email, Role: admin.Role}, nil
}

func (s *AdminService) Login(ctx context.Context, in LoginInput) (*AdminLogin, error) {
	invalid := apperrors.Unauthorized("Invalid Email or password!")
	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid
		}
		return nil, apperrors.Internal("Failed to login", err)
	}
	if admin.Status == models.StaffStatusInactive || !checkPassword(admin.Password, in.Password) {
		s.logger.Warn("Admin login rejected", zap.String("admin_id", admin.ID.Hex()))
		return nil, invalid
	}

	pair, err := s.sessions.Issue(ctx, adminIdentity(admin))
	if err != nil {
		return nil, err
	}
	return &AdminLogin{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ID:           admin.ID,
		Name:         admin.Name,
		Phone:        admin.Phone,
		Email:        admin.Email,
		Image:        admin.Image,
		Role:         admin.Role,
	}, nil
}

// ForgetPassword mails a one-day reset link.
func (s *AdminService) ForgetPassword(ctx context.Context, email string) error {
	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Admin Not found with this email!")
		}
		return apperrors.Internal("Failed to process request", err)
	}

	token, err := randomToken(32)
	if err != nil {
		return apperrors.Internal("Failed to process request", err)
	}
	expiry := s.now().UTC().Add(confirmationTTL)
	admin.ConfirmationToken = token
	admin.ConfirmationTokenExpiry = &expiry
	admin.UpdatedAt = s.now().UTC()
	if err := s.admins.Replace(ctx, admin); err != nil {
		return apperrors.Internal("Failed to process request", err)
	}

	msg, err := sender.PasswordReset(models.MailAdminReset, admin.Name, admin.Email, s.adminURL+"/forget-password/"+token)
	if err != nil {
		return apperrors.Internal("Failed to send email", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return apperrors.Internal("Failed to send email", err)
	}
	return nil
}

func (s *AdminService) ConfirmForgetPassword(ctx context.Context, token, password string) error {
	admin, err := s.admins.FindByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Forbidden("Invalid token!")
		}
		return apperrors.Internal("Failed to reset password", err)
	}
	if admin.ConfirmationTokenExpiry == nil || s.now().After(*admin.ConfirmationTokenExpiry) {
		return apperrors.Unauthorized("Token expired, please try again!")
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	admin.Password = hashed
	admin.ConfirmationToken = ""
	admin.ConfirmationTokenExpiry = nil
	admin.UpdatedAt = s.now().UTC()
	if err := s.admins.Replace(ctx, admin); err != nil {
		return apperrors.Internal("Failed to reset password", err)
	}
	return nil
}

func (s *AdminService) ChangePassword(ctx context.Context, email, oldPass, newPass string) error {
	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Admin not found!")
		}
		return apperrors.Internal("Failed to change password", err)
	}
	if !checkPassword(admin.Password, oldPass) {
		return apperrors.Unauthorized("Incorrect current password")
	}
	if err := validatePassword(newPass); err != nil {
		return err
	}
	hashed, err := HashPassword(newPass)
	if err != nil {
		return err
	}
	admin.Password = hashed
	admin.UpdatedAt = s.now().UTC()
	if err := s.admins.Replace(ctx, admin); err != nil {
		return apperrors.Internal("Failed to change password", err)
	}
	return nil
}

// ResetPassword accepts a verification JWT carrying the admin's email.
func (s *AdminService) ResetPassword(ctx context.Context, token, newPassword string) error {
	invalid := apperrors.Unauthorized("Invalid or expired token")
	claims, err := auth.ParseHMAC(token, s.verifySecret, "")
	if err != nil {
		return invalid
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return invalid
	}
	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return invalid
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	admin.Password = hashed
	admin.UpdatedAt = s.now().UTC()
	if err := s.admins.Replace(ctx, admin); err != nil {
		return apperrors.Internal("Failed to reset password", err)
	}
	return nil
}

func (s *AdminService) AddStaff(ctx context.Context, in StaffInput) (*models.Admin, error) {
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleAdmin
	}
	now := s.now().UTC()
	staff := models.Admin{
		Name:        in.Name,
		Image:       in.Image,
		Address:     in.Address,
		Country:     in.Country,
		City:        in.City,
		Email:       normalizeEmail(in.Email),
		Phone:       in.Phone,
		Password:    hashed,
		Role:        role,
		JoiningDate: in.JoiningDate,
		Status:      models.StaffStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.admins.Create(ctx, &staff); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Internal("Staff already exists with this email", err)
		}
		return nil, apperrors.Internal("Failed to add staff", err)
	}
	s.logger.Info("Staff added", zap.String("admin_id", staff.ID.Hex()), zap.String("role", staff.Role))
	return &staff, nil
}

func (s *AdminService) ListStaff(ctx context.Context) ([]models.Admin, error) {
	staff, err := s.admins.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch staff", err)
	}
	return staff, nil
}

func (s *AdminService) GetStaff(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	staff, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Staff not found")
	}
	return staff, nil
}

// UpdateStaff applies a partial update and returns the staff member with a fresh access token.
func (s *AdminService) UpdateStaff(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Admin, string, error) {
	existing, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, "", err
	}
	updated := *existing
	if err := mergeJSON(&updated, patch); err != nil {
		return nil, "", err
	}
	updated.ID = existing.ID
	updated.Password = existing.Password
	updated.CreatedAt = existing.CreatedAt
	updated.ConfirmationToken = existing.ConfirmationToken
	updated.ConfirmationTokenExpiry = existing.ConfirmationTokenExpiry
	updated.Email = normalizeEmail(updated.Email)
	updated.UpdatedAt = s.now().UTC()
	if updated.Name == "" || updated.Email == "" {
		return nil, "", apperrors.BadRequest("Name and email are required")
	}

	if err := s.admins.Replace(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperrors.Conflict("Staff already exists with this email")
		}
		return nil, "", notFoundOr(err, "Staff not found")
	}
	token, err := s.sessions.AccessToken(adminIdentity(&updated))
	if err != nil {
		return nil, "", err
	}
	return &updated, token, nil
}

func (s *AdminService) DeleteStaff(ctx context.Context, id primitive.ObjectID) error {
	if err := s.admins.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Staff not found")
	}
	s.logger.Info("Staff deleted", zap.String("admin_id", id.Hex()))
	return nil
}

func (s *AdminService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Admin, error) {
	if status != models.StaffStatusActive && status != models.StaffStatusInactive {
		return nil, apperrors.BadRequest("Status must be Active or Inactive")
	}
	staff, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	staff.Status = status
	staff.UpdatedAt = s.now().UTC()
	if err := s.admins.Replace(ctx, staff); err != nil {
		return nil, notFoundOr(err, "Staff not found")
	}
	return staff, nil
}
