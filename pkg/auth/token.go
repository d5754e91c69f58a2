package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired is returned by Parse for a well-formed token past its exp.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other rejection: bad signature, wrong issuer, garbage input.
	ErrTokenInvalid = errors.New("token invalid")
)

const clockLeeway = 30 * time.Second

var signingMethod = jwt.SigningMethodHS256

// Shopper is what a session token says about the signed-in user.
type Shopper struct {
	UserID string
	Name   string
	Email  string
}

// Claims is the decoded body of a shopper session token.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies shopper session tokens with one HMAC key.
type Issuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
}

// NewIssuer validates cfg once so Mint and Parse never have to.
func NewIssuer(cfg config.JWTConfig) (*Issuer, error) {
	switch {
	case strings.TrimSpace(cfg.Secret) == "":
		return nil, fmt.Errorf("jwt secret is required")
	case strings.TrimSpace(cfg.Issuer) == "":
		return nil, fmt.Errorf("jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return nil, fmt.Errorf("jwt expiration minutes must be positive")
	}
	return &Issuer{
		key:    []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTokenTTL(),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockLeeway),
		),
	}, nil
}

// TTL is the lifetime stamped onto minted tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Mint signs a token for who, valid from now for TTL. Each token gets a fresh jti.
func (i *Issuer) Mint(now time.Time, who Shopper) (string, error) {
	if strings.TrimSpace(who.UserID) == "" {
		return "", fmt.Errorf("user id is required")
	}
	claims := Claims{
		UserID: who.UserID,
		Name:   who.Name,
		Email:  who.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   who.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns its claims. Errors wrap ErrTokenExpired or ErrTokenInvalid.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := i.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.key, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrTokenInvalid)
	}
	return claims, nil
}

// BearerToken pulls the credential out of an Authorization header value.
// The scheme match is case-insensitive.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
