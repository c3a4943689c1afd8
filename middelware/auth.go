package middelware

import (
	"errors"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID    = "user_id"
	ContextUserRoles = "user_roles"
	ContextClaims    = "jwt_claims"
)

// JWTManager validates bearer tokens issued by the identity service
type JWTManager struct {
	Config *models.Config
	Logger logger.Logger
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *models.Config, log logger.Logger) *JWTManager {
	return &JWTManager{
		Config: cfg,
		Logger: log,
	}
}

// GenerateToken signs a token for the given identity. Used by operators and tests.
func (j *JWTManager) GenerateToken(userID, email, username string, roles []string) (string, error) {
	now := time.Now()
	claims := models.JWTClaims{
		UserID:   userID,
		Email:    email,
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(), // JTI (JWT ID)
			Subject:   userID,
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.Config.JWTExpiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", err
	}

	j.Logger.Debugf("Generated JWT token for user: %s", userID)
	return tokenString, nil
}

func (j *JWTManager) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if j.Config.AppName != "" {
		options = append(options, jwt.WithIssuer(j.Config.AppName))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.Config.JWTSecret), nil
	}, options...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.New("token expired")
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, errors.New("token not yet valid")
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, errors.New("invalid token issuer")
		}
		j.Logger.Debugf("Failed to parse JWT token: %v", err)
		return nil, err
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid claims")
	}

	if claims.UserID == "" {
		return nil, errors.New("token has no user")
	}

	return claims, nil
}

func abortUnauthorized(c *gin.Context, message, details string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		models.NewErrorResponse(http.StatusUnauthorized, message, "AuthenticationError", details))
}

// AuthMiddleware validates the bearer token and stores the claims in the context
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Missing Authorization header", "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "Invalid Authorization header format", "Authorization header must be in format: Bearer <token>")
			return
		}

		claims, err := j.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			j.Logger.Warnf("Token validation failed: %v", err)
			abortUnauthorized(c, "Invalid or expired token", err.Error())
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRoles, claims.Roles)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// RequireRole middleware checks if user has specific role
func (j *JWTManager) RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextClaims)
		claims, ok := value.(*models.JWTClaims)
		if !exists || !ok {
			abortUnauthorized(c, "Authentication required", "User not authenticated")
			return
		}

		if !claims.HasRole(requiredRole) {
			j.Logger.Warnf("User %s does not have required role: %s", claims.UserID, requiredRole)
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewErrorResponse(
				http.StatusForbidden,
				"Insufficient permissions",
				"AuthorizationError",
				fmt.Sprintf("Required role: %s", requiredRole),
			))
			return
		}

		c.Next()
	}
}
