package services

import (
	"context"
	"fmt"

	"subscription-checkout-api/internal/config"
	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/models"
	"subscription-checkout-api/pkg/logging"

	"github.com/google/uuid"
)

// AuthService signs customers in with an emailed one-time code and issues
// session-scoped bearer tokens
type AuthService struct {
	sessions *SessionService
	email    *EmailService
}

// NewAuthService creates a new auth service
func NewAuthService(sessions *SessionService, email *EmailService) *AuthService {
	return &AuthService{sessions: sessions, email: email}
}

// SendSignInCode generates, stores and emails a one-time sign-in code.
// Requests for the same address are rate limited.
func (s *AuthService) SendSignInCode(ctx context.Context, email string) error {
	limited, err := s.sessions.CheckRateLimit(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}
	if limited {
		return fmt.Errorf("please wait before requesting another code")
	}

	code, err := s.sessions.GenerateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.sessions.StoreCode(ctx, email, code, config.AppConfig.CodeExpireMinutes); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	if err := s.sessions.SetRateLimit(ctx, email, config.AppConfig.RateLimitMinutes); err != nil {
		return fmt.Errorf("failed to set rate limit: %w", err)
	}

	if err := s.email.SendSignInCodeEmail(ctx, email, code); err != nil {
		logging.Errorf("Failed to send sign-in code email to %s: %v", email, err)
		return fmt.Errorf("failed to send sign-in code: %w", err)
	}

	logging.Infof("Sign-in code sent to %s", email)
	return nil
}

// VerifySignInCode checks the code and, when valid, returns the customer
// (created on first sign-in) with a fresh bearer token
func (s *AuthService) VerifySignInCode(ctx context.Context, email, code string) (*models.Customer, string, error) {
	stored, err := s.sessions.GetCode(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid or expired code")
	}
	if stored != code {
		return nil, "", fmt.Errorf("invalid or expired code")
	}

	// Single use
	if err := s.sessions.DeleteCode(ctx, email); err != nil {
		logging.Errorf("Failed to delete sign-in code for %s: %v", email, err)
	}

	customer, err := database.GetOrCreateCustomerByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve customer: %w", err)
	}

	token := uuid.NewString()
	if err := s.sessions.StoreAuthToken(ctx, token, customer.ID); err != nil {
		return nil, "", fmt.Errorf("failed to store token: %w", err)
	}

	logging.Infof("Customer %d signed in", customer.ID)
	return customer, token, nil
}
