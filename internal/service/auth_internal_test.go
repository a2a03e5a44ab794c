package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

func TestGoogleSignInRejectsInvalidToken(t *testing.T) {
	s := NewAuthService(nil, "secret", "client-id", zap.NewNop())
	s.validateIDToken = func(_ context.Context, _, _ string) (*idtoken.Payload, error) {
		return nil, errors.New("token expired")
	}

	_, _, err := s.GoogleSignIn(context.Background(), "bad-token")
	if !errors.Is(err, ErrInvalidGoogleToken) {
		t.Fatalf("err = %v, want ErrInvalidGoogleToken", err)
	}
}

func TestGoogleSignInRejectsMissingEmail(t *testing.T) {
	s := NewAuthService(nil, "secret", "client-id", zap.NewNop())
	s.validateIDToken = func(_ context.Context, _, _ string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Claims: map[string]any{}}, nil
	}

	_, _, err := s.GoogleSignIn(context.Background(), "token")
	if !errors.Is(err, ErrInvalidGoogleToken) {
		t.Fatalf("err = %v, want ErrInvalidGoogleToken", err)
	}
}

func TestGoogleSignInBreakerOpensAfterRepeatedFailures(t *testing.T) {
	s := NewAuthService(nil, "secret", "client-id", zap.NewNop())
	s.validateIDToken = func(_ context.Context, _, _ string) (*idtoken.Payload, error) {
		return nil, errors.New("cert endpoint down")
	}

	for i := 0; i < 5; i++ {
		_, _, _ = s.GoogleSignIn(context.Background(), "token")
	}
	if state := s.breaker.State(); state != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", state)
	}

	// With the breaker open the validator must not even be called.
	called := false
	s.validateIDToken = func(_ context.Context, _, _ string) (*idtoken.Payload, error) {
		called = true
		return nil, errors.New("unreachable")
	}
	_, _, err := s.GoogleSignIn(context.Background(), "token")
	if !errors.Is(err, ErrInvalidGoogleToken) {
		t.Fatalf("err = %v, want ErrInvalidGoogleToken", err)
	}
	if called {
		t.Error("validator called while breaker open")
	}
}
