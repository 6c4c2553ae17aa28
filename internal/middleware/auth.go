package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"attendance-leave/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	profileIDKey = "profile_id"
	profileKey   = "profile"
)

// ProfileLookup resolves the authenticated subject to a stored profile.
// It returns a nil profile and nil error when none is registered.
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// Authenticate verifies an HS256 bearer token issued by the identity
// provider and stores its subject as the caller's profile id.
func Authenticate(secret, issuer string) gin.HandlerFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			Fail(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(*jwt.Token) (any, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			Fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if _, err := uuid.Parse(claims.Subject); err != nil {
			Fail(c, http.StatusUnauthorized, "token subject is not a user id")
			return
		}

		c.Set(profileIDKey, claims.Subject)
		c.Next()
	}
}

// IssueToken mints a token in the shape Authenticate accepts.
func IssueToken(secret, issuer, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// LoadProfile requires a registered profile for the authenticated caller.
func LoadProfile(profiles ProfileLookup, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := profiles.GetByID(c.Request.Context(), ProfileID(c))
		if err != nil {
			logger.WithError(err).WithField("request_id", GetRequestID(c)).Error("Failed to load profile")
			Fail(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if profile == nil {
			Fail(c, http.StatusForbidden, "profile not registered")
			return
		}

		c.Set(profileKey, profile)
		c.Next()
	}
}

// RequireAdmin must run after LoadProfile.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := CurrentProfile(c)
		if err != nil || !profile.IsAdmin() {
			Fail(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

func ProfileID(c *gin.Context) string {
	return c.GetString(profileIDKey)
}

var errNoProfile = errors.New("no profile in request context")

func CurrentProfile(c *gin.Context) (*models.Profile, error) {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil, errNoProfile
	}
	profile, ok := v.(*models.Profile)
	if !ok || profile == nil {
		return nil, errNoProfile
	}
	return profile, nil
}
