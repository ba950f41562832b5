package localstore

import (
	"context"
	"sort"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/domain/subscription"
)

// SubscriptionRepository implements subscription.Repository over the
// subscriptions JSON file, a map keyed by product name
type SubscriptionRepository struct {
	store *Store
}

// NewSubscriptionRepository creates a subscription repository over a store
func NewSubscriptionRepository(store *Store) *SubscriptionRepository {
	return &SubscriptionRepository{store: store}
}

// List returns all subscriptions sorted by name
func (r *SubscriptionRepository) List(ctx context.Context) ([]subscription.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byName, err := r.load()
	if err != nil {
		return nil, err
	}
	subs := make([]subscription.Subscription, 0, len(byName))
	for name, sub := range byName {
		sub.Name = name
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].Name < subs[j].Name
	})
	return subs, nil
}

// Get returns a subscription by product name, or a not-found error
func (r *SubscriptionRepository) Get(ctx context.Context, name string) (subscription.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byName, err := r.load()
	if err != nil {
		return subscription.Subscription{}, err
	}
	sub, ok := byName[name]
	if !ok {
		return subscription.Subscription{}, commonErrors.NewNotFoundError("subscription not found").
			WithDetail("name", name)
	}
	sub.Name = name
	return sub, nil
}

// Put creates or replaces a subscription
func (r *SubscriptionRepository) Put(ctx context.Context, sub subscription.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byName, err := r.load()
	if err != nil {
		return err
	}
	byName[sub.Name] = sub
	return r.store.writeJSON(subscriptionsFile, byName)
}

// Delete removes a subscription
func (r *SubscriptionRepository) Delete(ctx context.Context, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byName, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := byName[name]; !ok {
		return commonErrors.NewNotFoundError("subscription not found").
			WithDetail("name", name)
	}
	delete(byName, name)
	return r.store.writeJSON(subscriptionsFile, byName)
}

func (r *SubscriptionRepository) load() (map[string]subscription.Subscription, error) {
	byName := make(map[string]subscription.Subscription)
	if err := r.store.readJSON(subscriptionsFile, &byName); err != nil {
		return nil, err
	}
	return byName, nil
}
