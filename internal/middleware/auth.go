package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "merlin/internal/errors"
	"merlin/internal/models"
	"merlin/internal/services"
)

const (
	// PrincipalKey is the gin context key holding the *services.Principal.
	PrincipalKey = "principal"
	// SessionIDKey is the gin context key holding the caller's session id.
	SessionIDKey = "sessionID"

	tokenIssuer = "merlin-api"
)

// Authenticator resolves a session id into a principal.
type Authenticator interface {
	Authenticate(sessionID, ipAddress string) (*services.Principal, error)
}

// JWTClaims represents the claims in the gateway access token.
type JWTClaims struct {
	SessionID string `json:"sid"`
	UserID    int    `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a gateway access token for a session. The
// token never outlives the session's backend token.
func GenerateAccessToken(secret string, session *models.Session, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	if session.ExpiresAt != nil && session.ExpiresAt.Before(expiresAt) {
		expiresAt = *session.ExpiresAt
	}

	claims := &JWTClaims{
		SessionID: session.ID,
		UserID:    session.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprintf("%d", session.UserID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccessToken validates a gateway access token and returns its claims.
func ParseAccessToken(secret, tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil || !token.Valid {
		return nil, errors.New("invalid access token")
	}
	if claims.SessionID == "" {
		return nil, errors.New("access token has no session")
	}
	return claims, nil
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware verifies the access token, resolves the session behind it
// and sets the principal in the context.
func AuthMiddleware(secret string, authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := ParseAccessToken(secret, tokenString)
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		principal, err := authenticator.Authenticate(claims.SessionID, c.ClientIP())
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(SessionIDKey, principal.SessionID)
		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// OptionalSession sets the session id in the context when the request
// carries a valid access token, and lets the request through either way.
func OptionalSession(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := ParseAccessToken(secret, tokenString); err == nil {
				c.Set(SessionIDKey, claims.SessionID)
			}
		}
		c.Next()
	}
}
