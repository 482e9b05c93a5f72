package core

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/timada-org/catodo/internal/store"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("the token is not valid")
)

const (
	// TokenTTL bounds how long an issued session token stays usable.
	TokenTTL = time.Minute * 120

	// ClockSkew is the tolerance applied to expiry checks so that slightly
	// drifted clients are not rejected at the boundary.
	ClockSkew = time.Second * 30
)

type TokenClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Valid overrides the registered-claims check to apply the clock-skew
// tolerance; issuer and audience are verified in Auth.Verify.
func (c *TokenClaims) Valid() error {
	now := time.Now()

	if !c.VerifyExpiresAt(now.Add(-ClockSkew), true) {
		return jwt.ErrTokenExpired
	}

	if !c.VerifyNotBefore(now.Add(ClockSkew), false) {
		return jwt.ErrTokenNotValidYet
	}

	return nil
}

type Auth struct {
	store    *store.Store
	issuer   string
	audience string
	key      []byte
}

func NewAuth(s *store.Store, config JWT) *Auth {
	return &Auth{
		store:    s,
		issuer:   config.Issuer,
		audience: config.Audience,
		key:      []byte(config.Key),
	}
}

// Register hashes the password and persists a new user. The username must
// not already be taken.
func (a *Auth) Register(username string, password string) (*store.User, error) {
	existing, err := a.store.UserByUsername(username)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &store.User{
		Username:     username,
		PasswordHash: string(hash),
	}

	if err := a.store.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and issues a session token. A missing user
// and a wrong password are indistinguishable to the caller.
func (a *Auth) Login(username string, password string) (string, error) {
	user, err := a.store.UserByUsername(username)
	if err != nil {
		return "", err
	}

	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return a.IssueToken(user)
}

func (a *Auth) IssueToken(user *store.User) (string, error) {
	jti, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	now := time.Now()

	claims := &TokenClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        jti,
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{a.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(a.key)
}

// Verify parses the token and checks signature, expiry, issuer and audience.
func (a *Auth) Verify(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return a.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if !claims.VerifyIssuer(a.issuer, true) {
		return nil, ErrInvalidToken
	}

	if !claims.VerifyAudience(a.audience, true) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Claims extracts and verifies the bearer token of an incoming request.
func (a *Auth) Claims(r *http.Request) (*TokenClaims, error) {
	data := strings.Split(r.Header.Get("Authorization"), " ")
	if len(data) != 2 || data[0] != "Bearer" {
		return nil, errors.New("invalid authorization http header")
	}

	return a.Verify(data[1])
}
