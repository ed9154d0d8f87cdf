package auth

import (
	"net/http"
	"strings"
	"time"

	"geohunt_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

// ContextPlayerKey is the gin context key under which the middleware
// stores the authenticated *PlayerClaims.
const ContextPlayerKey = "player_claims"

var (
	ErrInvalidToken = jwt.ErrTokenMalformed
)

type PlayerClaims struct {
	PlayerID uuid.UUID
	Username string
	IsAdmin  bool
}

type JWTAuth struct {
	secret []byte
}

func NewJWTAuth(secret string) *JWTAuth {
	return &JWTAuth{secret: []byte(secret)}
}

func (a *JWTAuth) IssueToken(playerID uuid.UUID, username string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"player_id": playerID.String(),
		"username":  username,
		"is_admin":  isAdmin,
		"exp":       now.Add(tokenTTL).Unix(),
		"iat":       now.Unix(),
		"nbf":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *JWTAuth) ParseToken(tokenString string) (*PlayerClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	rawID, ok := claims["player_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	playerID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return &PlayerClaims{
		PlayerID: playerID,
		Username: username,
		IsAdmin:  isAdmin,
	}, nil
}

func (a *JWTAuth) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := a.ParseToken(tokenString)
		if err != nil {
			log.Info("invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextPlayerKey, claims)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware; it rejects tokens
// without the admin claim.
func (a *JWTAuth) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := PlayerFromContext(c)
		if !ok || !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func PlayerFromContext(c *gin.Context) (*PlayerClaims, bool) {
	v, exists := c.Get(ContextPlayerKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*PlayerClaims)
	return claims, ok
}
