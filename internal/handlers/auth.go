package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/church-network-api/internal/dto"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/middleware"
	"github.com/yukikurage/church-network-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	orgService  *services.OrganizationService
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(orgService *services.OrganizationService, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		orgService:  orgService,
		authService: authService,
	}
}

// Register creates a root organization and its administrator.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRootInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, org, err := h.orgService.RegisterRoot(c.Request.Context(), req)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegistrationDTO{
		User:         dto.ToUserDTO(*user),
		Organization: dto.ToOrganizationDTO(*org),
	})
}

// Login authenticates a principal and stores its identity in the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, identity, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if err := middleware.SaveIdentity(sessions.Default(c), identity); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated principal.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), identity.UserID())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// CreateBranchAdmin creates a principal for one of the caller's branches.
func (h *AuthHandler) CreateBranchAdmin(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req services.CreateBranchAdminInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.CreateBranchAdmin(c.Request.Context(), identity, req)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}
