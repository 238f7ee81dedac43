package services

import (
	"errors"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/security"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the admin password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService gates the admin dashboard surface: insights, exports, and
// coach reports.
type AuthService struct {
	passwordHash string // bcrypt hash of the admin password
	jwtSecret    string
	jwtExpiry    time.Duration
	logger       *logging.ChanneledLogger
}

// NewAuthService creates the admin auth service.
func NewAuthService(passwordHash, jwtSecret string, jwtExpiry time.Duration, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
		logger:       logger,
	}
}

// Enabled reports whether admin auth is configured. With no password hash
// set the admin surface stays closed.
func (a *AuthService) Enabled() bool {
	return a.passwordHash != "" && a.jwtSecret != ""
}

// Login verifies the admin password and issues a signed token.
func (a *AuthService) Login(password string) (string, error) {
	if !a.Enabled() {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)); err != nil {
		a.logger.Auth().Warn("Admin login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := security.GenerateAdminToken(a.jwtSecret, a.jwtExpiry)
	if err != nil {
		return "", err
	}

	a.logger.Auth().Info("Admin login successful")
	return token, nil
}

// ValidateToken checks a bearer token and returns its claims.
func (a *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	if !a.Enabled() {
		return nil, ErrInvalidCredentials
	}
	return security.ValidateJWT(tokenString, a.jwtSecret)
}
