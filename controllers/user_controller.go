package controllers

import (
	"net/http"
	"strings"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/middleware"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
)

type VerifyEmailRequest struct {
	VerifyEmail string `json:"verifyEmail" validate:"required,email"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UserController struct {
	service  UserServiceAPI
	sessions TokenRefresher
}

func NewUserController(s UserServiceAPI, sessions TokenRefresher) *UserController {
	return &UserController{service: s, sessions: sessions}
}

func (ctrl *UserController) Signup(c *gin.Context) {
	var in services.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.Signup(c.Request.Context(), in); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Please check your email to verify!", nil)
}

func (ctrl *UserController) Login(c *gin.Context) {
	var in services.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.Unauthorized("Please provide your credentials"))
		return
	}
	result, err := ctrl.service.Login(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Login successful", result)
}

func (ctrl *UserController) ConfirmEmail(c *gin.Context) {
	if err := ctrl.service.ConfirmEmail(c.Request.Context(), c.Param("token")); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Successfully activated your account.", nil)
}

func (ctrl *UserController) ForgetPassword(c *gin.Context) {
	var req VerifyEmailRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.ForgetPassword(c.Request.Context(), req.VerifyEmail); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Please check your email to reset password!", nil)
}

func (ctrl *UserController) ConfirmForgetPassword(c *gin.Context) {
	var req ConfirmPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.ConfirmForgetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Password reset successfully", nil)
}

func (ctrl *UserController) ChangePassword(c *gin.Context) {
	var in services.ChangePasswordInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	caller := c.GetString(middleware.EmailContextKey)
	if !middleware.HasRole(c, models.AdminRoles...) && !strings.EqualFold(caller, strings.TrimSpace(in.Email)) {
		_ = c.Error(apperrors.Forbidden("You can only change your own password"))
		return
	}
	if err := ctrl.service.ChangePassword(c.Request.Context(), in); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Password changed successfully", nil)
}

// UpdateUser edits a profile; customers may only edit their own.
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if id != caller && !middleware.HasRole(c, models.AdminRoles...) {
		_ = c.Error(apperrors.Forbidden("You can only update your own profile"))
		return
	}
	var in services.UpdateUserInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	result, err := ctrl.service.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Successfully updated profile", result)
}

func (ctrl *UserController) SignUpWithProvider(c *gin.Context) {
	result, err := ctrl.service.SignUpWithProvider(c.Request.Context(), c.Param("token"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Login successful", result)
}

// RefreshToken rotates a refresh token for either a customer or staff member.
func (ctrl *UserController) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	pair, err := ctrl.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", pair)
}
