package internal

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DefaultOperatorPassword is the shared operator secret used when none is configured.
const DefaultOperatorPassword = "atc2024"

type operatorKey struct{}

// WithOperator marks ctx as carrying the operator capability.
func WithOperator(ctx context.Context) context.Context {
	return context.WithValue(ctx, operatorKey{}, true)
}

// IsOperator reports whether ctx carries the operator capability.
func IsOperator(ctx context.Context) bool {
	ok, _ := ctx.Value(operatorKey{}).(bool)
	return ok
}

// OperatorSessions issues and validates operator session tokens.
type OperatorSessions struct {
	password string

	mu     sync.RWMutex
	tokens map[string]struct{}
}

// NewOperatorSessions creates a session table guarded by the shared password.
func NewOperatorSessions(password string) *OperatorSessions {
	return &OperatorSessions{
		password: password,
		tokens:   make(map[string]struct{}),
	}
}

// Login checks password and returns a fresh session token.
func (s *OperatorSessions) Login(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required: %w", ErrValidation)
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", fmt.Errorf("login: %w", ErrUnauthorized)
	}

	token := uuid.NewString()

	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()

	return token, nil
}

// Logout revokes token. Unknown tokens are ignored.
func (s *OperatorSessions) Logout(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Valid reports whether token belongs to a live session.
func (s *OperatorSessions) Valid(token string) bool {
	if token == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tokens[token]

	return ok
}
