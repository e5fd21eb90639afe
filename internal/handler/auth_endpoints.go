package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storybook-server/internal/auth"
	"storybook-server/internal/models"
)

// loginOrRegister authenticates an existing user or registers a new one.
// On success the signed token is set as an HTTP-only cookie.
func (h *Handler) loginOrRegister(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"loggedIn": false,
			"error":    "Invalid request data: " + err.Error(),
		})
		return
	}

	user, token, err := h.authService.LoginOrRegister(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		loginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, models.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"loggedIn": false,
				"error":    "Invalid email or password",
			})
			return
		}
		zap.L().Error("Login/register failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"loggedIn": false,
			"error":    "An unexpected error occurred",
		})
		return
	}

	loginsTotal.WithLabelValues("success").Inc()
	auth.SetAuthCookie(c, token, h.cfg.TokenTTL, h.cfg.IsProduction())

	c.JSON(http.StatusOK, gin.H{
		"loggedIn": true,
		"user":     user,
	})
}

// logout удаляет auth cookie. Без активной сессии это no-op.
func (h *Handler) logout(c *gin.Context) {
	if auth.GetAuthCookie(c) == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "No active session found"})
		return
	}

	auth.DeleteAuthCookie(c, h.cfg.IsProduction())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully logged out"})
}

// authCheck reports whether the request carries a valid session. It never
// fails: an invalid or missing token is just loggedIn=false.
func (h *Handler) authCheck(c *gin.Context) {
	token := auth.GetAuthCookie(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"user": nil, "loggedIn": false})
		return
	}

	user, err := h.authService.Check(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"user": nil, "loggedIn": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "loggedIn": true})
}
