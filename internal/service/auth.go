package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"projecthub/internal/model"
	"projecthub/internal/repository"
	"projecthub/internal/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidGoogleToken = errors.New("invalid google token")
)

type AuthService struct {
	users          *repository.UserRepository
	jwtSecret      string
	googleClientID string
	breaker        *gobreaker.CircuitBreaker
	logger         *zap.Logger

	// Overridable in tests; defaults to idtoken.Validate.
	validateIDToken func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewAuthService(users *repository.UserRepository, jwtSecret, googleClientID string, logger *zap.Logger) *AuthService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "google-idtoken",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &AuthService{
		users:          users,
		jwtSecret:      jwtSecret,
		googleClientID: googleClientID,
		breaker:        breaker,
		logger:         logger,
		validateIDToken: func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return idtoken.Validate(ctx, token, audience)
		},
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		s.logger.Warn("Login rejected: bad password", zap.String("username", username))
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GoogleSignIn verifies a Google ID token and signs the user in, provisioning
// a local account on first use. Verification goes through a circuit breaker:
// when Google's cert endpoint misbehaves we fail fast instead of piling up
// blocked requests.
func (s *AuthService) GoogleSignIn(ctx context.Context, token string) (*model.User, string, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.validateIDToken(ctx, token, s.googleClientID)
	})
	if err != nil {
		s.logger.Warn("Google token verification failed", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	payload := result.(*idtoken.Payload)

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, "", ErrInvalidGoogleToken
	}
	username, _ := payload.Claims["given_name"].(string)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	u, err := s.users.GetOrCreateByEmail(ctx, email, username)
	if err != nil {
		return nil, "", err
	}

	jwtToken, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return u, jwtToken, nil
}
