package subscription

import (
	"context"
)

// Repository defines the interface for subscription persistence
type Repository interface {
	// List returns all subscriptions
	List(ctx context.Context) ([]Subscription, error)

	// Get returns a subscription by product name, or a not-found error
	Get(ctx context.Context, name string) (Subscription, error)

	// Put creates or replaces a subscription
	Put(ctx context.Context, sub Subscription) error

	// Delete removes a subscription
	Delete(ctx context.Context, name string) error
}
