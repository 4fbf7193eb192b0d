package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/requestdata"
	"github.com/onropepro/onrope-backend/internal/services"
	"github.com/onropepro/onrope-backend/internal/utils"
)

// Capability sets per role. A role not listed here gets no data capabilities
// at all, so token role typos fail closed.
var roleCapabilities = map[string][]string{
	"admin":      {services.CapScheduleRead, services.CapTimecardsRead, services.CapProjectsRead},
	"supervisor": {services.CapScheduleRead, services.CapTimecardsRead, services.CapProjectsRead},
	"technician": {services.CapProjectsRead},
	"viewer":     {},
}

// CapabilitiesForRole returns the capability set granted to a role.
func CapabilitiesForRole(role string) map[string]bool {
	caps := make(map[string]bool)
	for _, c := range roleCapabilities[role] {
		caps[c] = true
	}
	return caps
}

type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthMiddleware(log *logger.Logger) (*AuthMiddleware, error) {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	secret := utils.GetEnv("JWT_SECRET", "", middlewareLogger)
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return &AuthMiddleware{
		log:    middlewareLogger,
		secret: []byte(secret),
	}, nil
}

// RequireAuth validates the bearer token and stashes the caller's identity,
// role, and capabilities in the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		rd, err := am.parseToken(tokenString)
		if err != nil {
			am.log.Debug("Token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), rd)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated caller holds one of
// the given roles. It must run after RequireAuth.
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		for _, role := range roles {
			if rd.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

func (am *AuthMiddleware) parseToken(tokenString string) (*requestdata.RequestData, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return am.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	companyID, _ := claims["company_id"].(string)
	role, _ := claims["role"].(string)

	userUUID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid subject claim")
	}
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, errors.New("invalid company claim")
	}

	return &requestdata.RequestData{
		UserID:       userUUID,
		CompanyID:    companyUUID,
		Role:         role,
		Capabilities: CapabilitiesForRole(role),
	}, nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
