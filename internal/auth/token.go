package auth

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/altruria/farmstore/internal/domain/user"
)

// ErrInvalidToken is returned for any unparsable, expired, mis-signed, or
// wrong-type token. Callers get no further detail.
var ErrInvalidToken = errors.New("invalid token")

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	IsAdmin   bool   `json:"adm"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Tokens is an access/refresh pair issued at login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issuer signs and verifies session tokens with a shared HS256 secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer creates a token Issuer. The secret must be kept out of logs and
// version control.
func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue signs a fresh access/refresh pair for the given identity.
func (i *Issuer) Issue(id user.Identity) (Tokens, error) {
	access, err := i.sign(id, typeAccess, i.accessTTL)
	if err != nil {
		return Tokens{}, errors.Wrap(err, "sign access token")
	}
	refresh, err := i.sign(id, typeRefresh, i.refreshTTL)
	if err != nil {
		return Tokens{}, errors.Wrap(err, "sign refresh token")
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) sign(id user.Identity, typ string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		IsAdmin:   id.IsAdmin,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify validates an access token and returns the identity it carries.
func (i *Issuer) Verify(token string) (user.Identity, error) {
	return i.verify(token, typeAccess)
}

// Refresh validates a refresh token and issues a fresh token pair.
func (i *Issuer) Refresh(refreshToken string) (Tokens, error) {
	id, err := i.verify(refreshToken, typeRefresh)
	if err != nil {
		return Tokens{}, err
	}
	return i.Issue(id)
}

func (i *Issuer) verify(token, wantType string) (user.Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid || claims.TokenType != wantType || claims.Subject == "" {
		return user.Identity{}, ErrInvalidToken
	}
	return user.Identity{UserID: claims.Subject, IsAdmin: claims.IsAdmin}, nil
}
