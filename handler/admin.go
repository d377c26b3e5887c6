package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vazarkarshreya23-bit/govbot/config"
	"github.com/vazarkarshreya23-bit/govbot/middleware"
	"github.com/vazarkarshreya23-bit/govbot/model"
	"github.com/vazarkarshreya23-bit/govbot/pkg/logger"
)

// CredentialChecker verifies admin credentials. The Postgres store
// implements it with a plain equality check; a hashed scheme can be swapped
// in without touching this handler.
type CredentialChecker interface {
	CheckAdmin(ctx context.Context, username, password string) (bool, error)
}

// AdminStore is the store surface the admin panel needs.
type AdminStore interface {
	CredentialChecker
	ListApplications(ctx context.Context) ([]model.Application, error)
	UpdateStatus(ctx context.Context, appID, status string) error
}

type AdminHandler struct {
	store AdminStore
	auth  *config.AuthConfig
}

func NewAdminHandler(store AdminStore, auth *config.AuthConfig) *AdminHandler {
	return &AdminHandler{store: store, auth: auth}
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Username  string `json:"username"`
}

// Login checks credentials against the store and issues an admin token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ok, err := h.store.CheckAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Error(c.Request.Context(), "admin credential check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, expiresAt, err := middleware.GenerateAdminToken(req.Username, h.auth)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to generate admin token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AdminLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Username:  req.Username,
	})
}

// ListApplications returns every application, newest first.
func (h *AdminHandler) ListApplications(c *gin.Context) {
	apps, err := h.store.ListApplications(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list applications", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	if apps == nil {
		apps = []model.Application{}
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus sets a new status for an application. Unknown IDs are
// accepted silently, matching the store contract.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	appID := c.Param("app_id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.store.UpdateStatus(c.Request.Context(), appID, req.Status); err != nil {
		logger.Error(c.Request.Context(), "failed to update status", "error", err, "app_id", appID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	logger.Info(c.Request.Context(), "application status updated",
		"app_id", appID,
		"status", req.Status,
		"admin", middleware.GetAdminUsername(c),
	)
	c.JSON(http.StatusOK, gin.H{"app_id": appID, "status": req.Status})
}
