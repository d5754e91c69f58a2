package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/security"
	"github.com/google/uuid"
)

const invalidCredentialsMessage = "invalid email or password"

// Demo account available on every fresh directory.
const (
	DemoUserID   = "123"
	DemoName     = "Test User"
	DemoEmail    = "user@example.com"
	DemoPassword = "password"
)

// Service logs users in and signs them up. Logout is handled by the client
// discarding its token.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
}

// ServiceParams bundles the dependencies required to build an identity service.
type ServiceParams struct {
	Directory      *Directory
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type service struct {
	users     *Directory
	tokens    *pkgAuth.Issuer
	passwords *security.Hasher
	logg      *logger.Logger
	now       func() time.Time
}

// NewService constructs the identity service and seeds the demo account.
func NewService(params ServiceParams) (Service, error) {
	if params.Directory == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	issuer, err := pkgAuth.NewIssuer(params.JWTConfig)
	if err != nil {
		return nil, err
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	s := &service{
		users:     params.Directory,
		tokens:    issuer,
		passwords: security.NewHasher(params.PasswordConfig),
		logg:      logg,
		now:       time.Now,
	}
	if err := s.seedDemoUser(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) seedDemoUser() error {
	if _, ok := s.users.FindByEmail(DemoEmail); ok {
		return nil
	}
	hash, err := s.passwords.Hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	s.users.Insert(User{
		ID:           DemoUserID,
		Name:         DemoName,
		Email:        DemoEmail,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	return nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, ok := s.users.FindByEmail(req.Email)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	match, err := s.passwords.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now()
	s.users.RecordLogin(user.Email, now)
	if s.passwords.NeedsRehash(user.PasswordHash) {
		if hash, err := s.passwords.Hash(req.Password); err == nil {
			s.users.SetPasswordHash(user.Email, hash)
		} else {
			s.logg.Warn(s.logg.WithUserID(ctx, user.ID), "password rehash failed")
		}
	}

	token, err := s.mint(user, now)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "user logged in")
	return &AuthResponse{
		AccessToken: token,
		User:        user.toDTO(),
		Message:     fmt.Sprintf("Welcome back, %s!", user.Name),
	}, nil
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name is required")
	}
	if len(req.Password) < 6 {
		return nil, pkgerrors.Validation("password must be at least 6 characters")
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	now := s.now()
	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		CreatedAt:    now.UTC(),
	}
	if !s.users.Insert(user) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	token, err := s.mint(user, now)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "user signed up")
	return &AuthResponse{
		AccessToken: token,
		User:        user.toDTO(),
		Message:     fmt.Sprintf("Welcome to Bundle Bazaar, %s!", user.Name),
	}, nil
}

func (s *service) mint(user User, now time.Time) (string, error) {
	token, err := s.tokens.Mint(now, pkgAuth.Shopper{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}
