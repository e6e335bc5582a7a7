package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farwaysec/backend/internal/api/middleware"
	"github.com/farwaysec/backend/internal/models"
	"github.com/farwaysec/backend/internal/services"
)

// AuthHandler exposes registration, login, 2FA and profile endpoints.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers auth routes. Profile and 2FA toggle require a
// valid token; the rest are public.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)
	router.POST("/auth/verify-2fa", h.VerifyTwoFactor)

	router.GET("/auth/profile", auth, h.GetProfile)
	router.PUT("/auth/profile", auth, h.UpdateProfile)
	router.POST("/auth/toggle-2fa", auth, h.ToggleTwoFactor)
}

type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email"`
	Password  string          `json:"password" binding:"required,min=8"`
	FirstName string          `json:"firstName" binding:"required"`
	LastName  string          `json:"lastName" binding:"required"`
	Role      models.UserRole `json:"role"`
	Company   string          `json:"company"`
	Phone     string          `json:"phone"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Company:   req.Company,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists with this email"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in", "error": err.Error()})
		return
	}

	if result.RequiresTwoFactor {
		c.JSON(http.StatusOK, gin.H{
			"message":           "Please complete two-factor authentication",
			"requiresTwoFactor": true,
			"userId":            result.UserID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

type VerifyTwoFactorRequest struct {
	UserID        uint   `json:"userId" binding:"required"`
	TwoFactorCode string `json:"twoFactorCode" binding:"required"`
}

func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req VerifyTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, token, err := h.authService.VerifyTwoFactor(req.UserID, req.TwoFactorCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, services.ErrTwoFactorNotEnabled):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Two-factor authentication not enabled for this user"})
		case errors.Is(err, services.ErrInvalidTwoFactorCode):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid two-factor code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error verifying two-factor code", "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Two-factor authentication successful",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching user profile", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, _ := middleware.UserID(c)

	user, err := h.authService.UpdateProfile(userID, services.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating profile", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *AuthHandler) ToggleTwoFactor(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	toggle, err := h.authService.ToggleTwoFactor(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error toggling two-factor authentication", "error": err.Error()})
		return
	}

	if !toggle.Enabled {
		c.JSON(http.StatusOK, gin.H{
			"message":          "Two-factor authentication disabled successfully",
			"twoFactorEnabled": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Two-factor authentication enabled successfully",
		"twoFactorEnabled": true,
		"twoFactorSecret":  toggle.Secret,
		"qrCodeImage":      toggle.QRCodeImage,
	})
}
