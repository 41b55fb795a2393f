package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shoply/shoply/core/user"
	"github.com/shoply/shoply/validate"
)

var ErrInvalidToken = errors.New("token is invalid")

const (
	useAccess  = "access"
	useRefresh = "refresh"
)

type Config struct {
	Secret         string
	AccessTimeout  time.Duration
	RefreshTimeout time.Duration
}

// Auth signs and verifies the JWT pairs handed to clients.
type Auth struct {
	secret         []byte
	accessTimeout  time.Duration
	refreshTimeout time.Duration
}

func New(cfg Config) *Auth {
	return &Auth{
		secret:         []byte(cfg.Secret),
		accessTimeout:  cfg.AccessTimeout,
		refreshTimeout: cfg.RefreshTimeout,
	}
}

type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TokenUse string `json:"tokenUse"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GenerateTokens issues a fresh access/refresh pair for the user. The
// access token carries the profile claims, the refresh token only the
// subject.
func (a *Auth) GenerateTokens(usr user.User) (TokenPair, error) {
	now := time.Now().UTC()

	access := Claims{
		Username: usr.Username,
		Email:    usr.Email,
		Role:     usr.Role,
		TokenUse: useAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        validate.GenerateID(),
			Subject:   usr.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.accessTimeout)),
		},
	}

	refresh := Claims{
		TokenUse: useRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        validate.GenerateID(),
			Subject:   usr.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.refreshTimeout)),
		},
	}

	acc, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(a.secret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("signing access token: %w", err)
	}

	ref, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(a.secret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("signing refresh token: %w", err)
	}

	return TokenPair{Access: acc, Refresh: ref}, nil
}

// ParseAccess verifies an access token and returns its claims.
func (a *Auth) ParseAccess(token string) (Claims, error) {
	clm, err := a.parse(token)
	if err != nil {
		return Claims{}, err
	}

	if clm.TokenUse != useAccess {
		return Claims{}, ErrInvalidToken
	}

	return clm, nil
}

// ParseRefresh verifies a refresh token and returns the user it was
// issued to.
func (a *Auth) ParseRefresh(token string) (string, error) {
	clm, err := a.parse(token)
	if err != nil {
		return "", err
	}

	if clm.TokenUse != useRefresh {
		return "", ErrInvalidToken
	}

	return clm.Subject, nil
}

func (a *Auth) parse(token string) (Claims, error) {
	var clm Claims
	t, err := jwt.ParseWithClaims(token, &clm, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	})
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidToken
	}

	return clm, nil
}
