package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"classcheck/internal/auth"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterTeacher creates a teacher account and issues a token pair.
func (h *Handler) RegisterTeacher(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if existing, err := h.accounts.GetTeacherByEmail(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	} else if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
		return
	}
	teacher, err := h.accounts.CreateTeacher(c.Request.Context(), req.Name, req.Email, hash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	h.issueTokens(c, teacher.ID, http.StatusCreated)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	teacher, err := h.accounts.GetTeacherByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if teacher == nil || !auth.CheckPassword(teacher.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	h.issueTokens(c, teacher.ID, http.StatusOK)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates a refresh token into a new pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := auth.Parse(req.RefreshToken, h.cfg.JWTSigningKey, h.cfg.JWTIssuer)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	valid, err := h.accounts.RefreshTokenValid(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token revoked or expired"})
		return
	}
	if err := h.accounts.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
		log.Printf("refresh token revoke failed: %v", err)
	}
	h.issueTokens(c, claims.Subject, http.StatusOK)
}

func (h *Handler) issueTokens(c *gin.Context, teacherID string, status int) {
	tokens, err := auth.Issue(teacherID, "teacher", h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	if err := h.accounts.SaveRefreshToken(c.Request.Context(), teacherID, tokens.RefreshToken, tokens.RefreshExp); err != nil {
		log.Printf("refresh token save failed: %v", err)
	}

	c.JSON(status, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}
