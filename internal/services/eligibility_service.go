package services

import (
	"sort"

	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/models"
	"subscription-checkout-api/pkg/logging"
	"subscription-checkout-api/pkg/ordering"
)

// PolicyFilter adjusts the resolved limitation policy before it is
// interpreted. Filters run in registration order.
type PolicyFilter func(policy string, product *models.Product) string

// DecisionFilter adjusts the final eligibility decision. Filters run in
// registration order.
type DecisionFilter func(allowed bool, customerID uint, product *models.Product) bool

// EligibilityService decides whether a customer may purchase a subscription
// product right now, based on the product's limitation policy and the
// customer's subscription history for that product.
type EligibilityService struct {
	policyFilters   []PolicyFilter
	decisionFilters []DecisionFilter
}

// NewEligibilityService creates a new eligibility service
func NewEligibilityService() *EligibilityService {
	return &EligibilityService{}
}

// AddPolicyFilter registers a filter over the resolved limitation policy
func (s *EligibilityService) AddPolicyFilter(filter PolicyFilter) {
	s.policyFilters = append(s.policyFilters, filter)
}

// AddDecisionFilter registers a filter over the final eligibility decision
func (s *EligibilityService) AddDecisionFilter(filter DecisionFilter) {
	s.decisionFilters = append(s.decisionFilters, filter)
}

// ResolvePolicy resolves the effective limitation policy for a product.
// Variations use their parent's configured policy. An unset policy means
// unlimited.
func (s *EligibilityService) ResolvePolicy(product *models.Product) string {
	effective := product
	if product.IsVariation() {
		parent, err := database.GetProductByID(product.ParentID)
		if err != nil {
			logging.Errorf("Failed to resolve parent product %d for variation %d: %v",
				product.ParentID, product.ID, err)
		} else {
			effective = parent
		}
	}

	policy := effective.LimitationPolicy
	if policy == "" {
		policy = models.LimitationNone
	}

	for _, filter := range s.policyFilters {
		policy = filter(policy, product)
	}
	return policy
}

// IsPurchaseAllowed reports whether the customer may purchase the product.
// Non-subscription products are never limited. A customer ID of 0 means no
// authenticated customer; with no history stored under it, such a customer
// is effectively unrestricted.
func (s *EligibilityService) IsPurchaseAllowed(customerID uint, product *models.Product) bool {
	allowed := true

	if product != nil && product.IsSubscription() {
		switch policy := s.ResolvePolicy(product); policy {
		case models.LimitationNone:
			allowed = true
		case models.LimitationActive:
			// Block a new purchase while an on-hold subscription to the
			// same product could be resumed instead.
			allowed = !s.hasSubscriptionWithStatus(customerID, product.ID, models.SubscriptionStatusOnHold)
		default:
			allowed = !s.isBlockedByHistory(customerID, product.ID, policy)
		}
	}

	for _, filter := range s.decisionFilters {
		allowed = filter(allowed, customerID, product)
	}
	return allowed
}

func (s *EligibilityService) hasSubscriptionWithStatus(customerID, productID uint, status string) bool {
	subscriptions := s.fetchHistory(customerID, productID)
	for _, subscription := range subscriptions {
		if subscription.Status == status {
			return true
		}
	}
	return false
}

// isBlockedByHistory interprets the "any" policy and explicit-status
// policies over the customer's full history for the product.
//
// For "any", a raw match is refined: a subscription that was cancelled
// before any payment succeeded is an abandoned checkout, not an exhausted
// purchase, so the customer is only blocked when at least one subscription
// fails that exemption. History is read-only within an evaluation, so one
// fetch serves both the raw match and the refinement.
func (s *EligibilityService) isBlockedByHistory(customerID, productID uint, policy string) bool {
	subscriptions := s.fetchHistory(customerID, productID)

	hasMatch := false
	for _, subscription := range subscriptions {
		if policy == models.LimitationAny || subscription.Status == policy {
			hasMatch = true
			break
		}
	}
	if !hasMatch {
		return false
	}

	if policy != models.LimitationAny {
		return true
	}

	for _, subscription := range subscriptions {
		abandoned := subscription.Status == models.SubscriptionStatusCancelled &&
			subscription.PaymentCount == 0
		if !abandoned {
			return true
		}
	}
	return false
}

// fetchHistory returns the customer's subscriptions referencing the
// product, newest first
func (s *EligibilityService) fetchHistory(customerID, productID uint) []models.Subscription {
	subscriptions, err := database.GetSubscriptionsByCustomerAndProduct(customerID, productID)
	if err != nil {
		logging.Errorf("Failed to load subscription history for customer %d, product %d: %v",
			customerID, productID, err)
		return nil
	}

	byCreated := ordering.NewComparator(ordering.ByCreatedAt())
	sort.SliceStable(subscriptions, func(i, j int) bool {
		return byCreated.Descending(subscriptions[i], subscriptions[j]) < 0
	})
	return subscriptions
}
