package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"subscription-checkout-api/internal/config"
	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/models"

	"github.com/redis/go-redis/v9"
)

// SessionService provides Redis-backed, session-scoped storage: the
// transient cart, the order a checkout is completing, flash notices,
// sign-in codes and auth tokens.
type SessionService struct {
	client *redis.Client
}

// NewSessionService creates a new session service instance
func NewSessionService() *SessionService {
	return &SessionService{client: database.GetRedis()}
}

func (s *SessionService) sessionTTL() time.Duration {
	return time.Duration(config.AppConfig.SessionExpireHours) * time.Hour
}

// SaveCart stores the session cart as JSON
func (s *SessionService) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	key := fmt.Sprintf("cart:%s", sessionID)
	return s.client.Set(ctx, key, data, s.sessionTTL()).Err()
}

// GetCart loads the session cart. A missing cart is returned as an empty
// cart, not an error.
func (s *SessionService) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	key := fmt.Sprintf("cart:%s", sessionID)
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return models.NewCart(), nil
		}
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return &cart, nil
}

// ClearCart removes the session cart
func (s *SessionService) ClearCart(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("cart:%s", sessionID)
	return s.client.Del(ctx, key).Err()
}

// SetOrderAwaitingPayment records the order this session's checkout is completing
func (s *SessionService) SetOrderAwaitingPayment(ctx context.Context, sessionID string, orderID uint) error {
	key := fmt.Sprintf("order_awaiting_payment:%s", sessionID)
	return s.client.Set(ctx, key, strconv.FormatUint(uint64(orderID), 10), s.sessionTTL()).Err()
}

// GetOrderAwaitingPayment returns the recorded order ID, or 0 when none is set
func (s *SessionService) GetOrderAwaitingPayment(ctx context.Context, sessionID string) (uint, error) {
	key := fmt.Sprintf("order_awaiting_payment:%s", sessionID)
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	orderID, err := strconv.ParseUint(data, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse order id: %w", err)
	}
	return uint(orderID), nil
}

// AddNotice queues a user-visible flash notice for the session
func (s *SessionService) AddNotice(ctx context.Context, sessionID, kind, message string) error {
	data, err := json.Marshal(models.Notice{Kind: kind, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}
	key := fmt.Sprintf("notices:%s", sessionID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, s.sessionTTL()).Err()
}

// TakeNotices drains and returns the session's queued notices
func (s *SessionService) TakeNotices(ctx context.Context, sessionID string) ([]models.Notice, error) {
	key := fmt.Sprintf("notices:%s", sessionID)
	entries, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return nil, err
	}

	notices := make([]models.Notice, 0, len(entries))
	for _, entry := range entries {
		var notice models.Notice
		if err := json.Unmarshal([]byte(entry), &notice); err != nil {
			continue
		}
		notices = append(notices, notice)
	}
	return notices, nil
}

// GenerateCode generates a 6-digit sign-in code
func (s *SessionService) GenerateCode() (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	code := (int(bytes[0])<<16 | int(bytes[1])<<8 | int(bytes[2])) % 1000000
	return fmt.Sprintf("%06d", code), nil
}

// StoreCode stores a sign-in code for an email address
func (s *SessionService) StoreCode(ctx context.Context, email, code string, expireMinutes int) error {
	key := fmt.Sprintf("signin_code:%s", email)
	expire := time.Duration(expireMinutes) * time.Minute
	return s.client.Set(ctx, key, code, expire).Err()
}

// GetCode gets the stored sign-in code for an email address
func (s *SessionService) GetCode(ctx context.Context, email string) (string, error) {
	key := fmt.Sprintf("signin_code:%s", email)
	code, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("sign-in code not found or expired")
		}
		return "", err
	}
	return code, nil
}

// DeleteCode deletes the stored sign-in code for an email address
func (s *SessionService) DeleteCode(ctx context.Context, email string) error {
	key := fmt.Sprintf("signin_code:%s", email)
	return s.client.Del(ctx, key).Err()
}

// SetRateLimit sets the send-code rate limit marker for an email address
func (s *SessionService) SetRateLimit(ctx context.Context, email string, limitMinutes int) error {
	key := fmt.Sprintf("rate_limit:%s", email)
	expire := time.Duration(limitMinutes) * time.Minute
	return s.client.Set(ctx, key, "1", expire).Err()
}

// CheckRateLimit reports whether the email address is currently rate limited
func (s *SessionService) CheckRateLimit(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("rate_limit:%s", email)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// StoreAuthToken maps a sign-in token to a customer ID
func (s *SessionService) StoreAuthToken(ctx context.Context, token string, customerID uint) error {
	key := fmt.Sprintf("auth_token:%s", token)
	return s.client.Set(ctx, key, strconv.FormatUint(uint64(customerID), 10), s.sessionTTL()).Err()
}

// GetCustomerIDByToken resolves a sign-in token to a customer ID.
// Unknown or expired tokens resolve to 0 (anonymous).
func (s *SessionService) GetCustomerIDByToken(ctx context.Context, token string) (uint, error) {
	key := fmt.Sprintf("auth_token:%s", token)
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	customerID, err := strconv.ParseUint(data, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse customer id: %w", err)
	}
	return uint(customerID), nil
}
