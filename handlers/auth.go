package handlers

import (
	"net/http"
	"strings"
	"time"

	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string      `json:"name" binding:"required"`
	Surname  string      `json:"surname"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"required"`
	Phone    string      `json:"phone"`
}

// RegisterHandler creates an account and opens a session. Registration is
// simulated onboarding: no email verification round trip.
func RegisterHandler(repo repository.EntityRepository, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if req.Role != models.RoleClient && req.Role != models.RolePro {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be CLIENT or PRO"})
			return
		}
		if _, err := repo.GetUserByEmail(req.Email); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}

		now := time.Now()
		user := models.User{
			ID:           uuid.New().String(),
			Name:         req.Name,
			Surname:      req.Surname,
			Email:        strings.ToLower(req.Email),
			Phone:        req.Phone,
			Role:         req.Role,
			PasswordHash: string(hash),
			JoinedDate:   now.Format("2006-01-02"),
			Level:        "Novice",
			CreatedAt:    now,
		}
		if err := repo.CreateUser(&user); err != nil {
			logger.Error("User registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed: " + err.Error()})
			return
		}

		token, err := openSession(cache, user)
		if err != nil {
			logger.Error("Failed to open session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

// LoginHandler authenticates by email and password and returns a session token.
func LoginHandler(repo repository.EntityRepository, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		user, err := repo.GetUserByEmail(strings.ToLower(req.Email))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := openSession(cache, *user)
		if err != nil {
			logger.Error("Failed to open session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// LogoutHandler revokes the caller's session.
func LogoutHandler(cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if err := utils.DeleteAuthSession(cache, utils.HashToken(tokenString)); err != nil {
			getLogger(c).Warn("Failed to delete auth session", zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
	}
}

// MeHandler returns the authenticated caller.
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func openSession(cache *redis.Client, user models.User) (string, error) {
	token, err := utils.GenerateToken(user.ID, string(user.Role), utils.AuthSessionTTL)
	if err != nil {
		return "", err
	}
	session := utils.AuthSession{
		UserID:    user.ID,
		Role:      string(user.Role),
		CreatedAt: time.Now(),
	}
	if err := utils.SaveAuthSession(cache, utils.HashToken(token), session); err != nil {
		return "", err
	}
	return token, nil
}
