package controllers

import (
	"fmt"
	"net/http"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
)

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ConfirmPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type AdminChangePasswordRequest struct {
	Email   string `json:"email" validate:"required,email"`
	OldPass string `json:"oldPass" validate:"required"`
	NewPass string `json:"newPass" validate:"required,min=6"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// staffWithToken is a staff record flattened together with its refreshed access token.
type staffWithToken struct {
	*models.Admin
	Token string `json:"token"`
}

type AdminController struct {
	service   AdminServiceAPI
	dashboard DashboardServiceAPI
}

func NewAdminController(s AdminServiceAPI, dashboard DashboardServiceAPI) *AdminController {
	return &AdminController{service: s, dashboard: dashboard}
}

func (ctrl *AdminController) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	result, err := ctrl.service.Register(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Registration successful", result)
}

func (ctrl *AdminController) Login(c *gin.Context) {
	var in services.LoginInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	result, err := ctrl.service.Login(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Login successful", result)
}

func (ctrl *AdminController) ForgetPassword(c *gin.Context) {
	var req EmailRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.ForgetPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Please check your email to reset password!", nil)
}

func (ctrl *AdminController) ConfirmForgetPassword(c *gin.Context) {
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

func (ctrl *AdminController) ChangePassword(c *gin.Context) {
	var req AdminChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.ChangePassword(c.Request.Context(), req.Email, req.OldPass, req.NewPass); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Password changed successfully", nil)
}

func (ctrl *AdminController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Your password has been successfully reset", nil)
}

func (ctrl *AdminController) AddStaff(c *gin.Context) {
	var in services.StaffInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	staff, err := ctrl.service.AddStaff(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Staff Added Successfully!", staff)
}

func (ctrl *AdminController) GetAllStaff(c *gin.Context) {
	staff, err := ctrl.service.ListStaff(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Staff fetched successfully", staff)
}

func (ctrl *AdminController) GetStaff(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	staff, err := ctrl.service.GetStaff(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", staff)
}

func (ctrl *AdminController) UpdateStaff(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	patch, err := readBody(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	staff, token, err := ctrl.service.UpdateStaff(c.Request.Context(), id, patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Staff updated successfully", staffWithToken{Admin: staff, Token: token})
}

func (ctrl *AdminController) DeleteStaff(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.DeleteStaff(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Admin Deleted Successfully", nil)
}

func (ctrl *AdminController) UpdateStatus(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req StatusRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	staff, err := ctrl.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("Store %s Successfully!", staff.Status), staff)
}

func (ctrl *AdminController) DashboardStats(c *gin.Context) {
	stats, err := ctrl.dashboard.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}
