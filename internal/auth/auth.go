package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marianozunino/uploadpro/internal/config"
	"github.com/marianozunino/uploadpro/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid visitor token")
)

// Credentials are the two fixed login pairs of the demo
type Credentials struct {
	UserLogin     string
	UserPassword  string
	AdminLogin    string
	AdminPassword string
}

// CredentialsFromConfig reads the login pairs from the configuration
func CredentialsFromConfig(cfg *config.Config) Credentials {
	return Credentials{
		UserLogin:     cfg.UserLogin,
		UserPassword:  cfg.UserPassword,
		AdminLogin:    cfg.AdminLogin,
		AdminPassword: cfg.AdminPassword,
	}
}

// Check validates a login attempt made on the tab of the given role. A user pair
// submitted on the admin tab is rejected, and the other way round.
func (c Credentials) Check(tab model.Role, login, password string) (model.Role, error) {
	switch tab {
	case model.RoleUser:
		if equal(login, c.UserLogin) && equal(password, c.UserPassword) {
			return model.RoleUser, nil
		}
	case model.RoleAdmin:
		if equal(login, c.AdminLogin) && equal(password, c.AdminPassword) {
			return model.RoleAdmin, nil
		}
	default:
		return model.RoleNone, fmt.Errorf("%w: unknown tab %q", ErrInvalidCredentials, tab)
	}
	return model.RoleNone, ErrInvalidCredentials
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

const issuer = "uploadpro"

// Signer issues and verifies the visitor cookie
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token carrying the visitor id
func (s *Signer) Sign(visitorID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   visitorID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	return token.SignedString(s.secret)
}

// Parse verifies a token and returns its visitor id
func (s *Signer) Parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
