package subscription

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hausbuch/hausbuch/internal/domain/catalog"
	"github.com/hausbuch/hausbuch/internal/domain/item"
	"github.com/hausbuch/hausbuch/internal/domain/rates"
)

const (
	// Keyword marks subscription lines in the mini-language
	Keyword = "订阅"
	// DefaultCategory is assumed when a subscription block sets no 类型
	DefaultCategory = "订阅服务"
	// invoicePrefix tags auto-created subscription instances
	invoicePrefix = Keyword + "_"
)

// Service runs subscription registration and the recurrence engine
type Service struct {
	repo    Repository
	items   item.Repository
	catalog *catalog.Service
	rates   *rates.Service
	log     *zap.Logger

	// Now is the engine's clock; overridable in tests
	Now func() time.Time
}

// NewService creates a new subscription service
func NewService(repo Repository, items item.Repository, catalogSvc *catalog.Service, ratesSvc *rates.Service, log *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		items:   items,
		catalog: catalogSvc,
		rates:   ratesSvc,
		log:     log,
		Now:     time.Now,
	}
}

// Register stores a subscription definition, marks its catalog product as
// non-buyout and materializes the first instance in inventory immediately
func (s *Service) Register(ctx context.Context, sub Subscription) error {
	if err := s.repo.Put(ctx, sub); err != nil {
		return err
	}

	if err := s.catalog.MarkSubscription(ctx, catalog.Product{
		Name:          sub.Name,
		StandardPrice: sub.Price,
		Currency:      sub.Currency,
		Category:      sub.Category,
	}); err != nil {
		return err
	}

	today := s.Now().Format(item.DateLayout)
	instance, err := s.newInstance(ctx, sub, today)
	if err != nil {
		return err
	}
	if err := s.items.AppendInventory(ctx, instance); err != nil {
		return err
	}

	s.log.Info("subscription registered",
		zap.String("name", sub.Name),
		zap.String("period", string(sub.Period)),
		zap.String("nextDate", sub.NextDate))
	return nil
}

// CheckRenewals performs due renewals: for every subscription whose next due
// date has been reached it creates a fresh inventory instance dated today,
// expires all other open instances of that name into history, and advances
// the due date by one period from the previous due date. A backlog of
// several missed periods catches up one step per invocation.
func (s *Service) CheckRenewals(ctx context.Context) ([]string, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })

	now := s.Now()
	today := now.Format(item.DateLayout)
	renewed := make([]string, 0)

	for _, sub := range subs {
		due, err := time.Parse(item.DateLayout, sub.NextDate)
		if err != nil {
			s.log.Warn("skipping subscription with invalid due date",
				zap.String("name", sub.Name), zap.String("nextDate", sub.NextDate))
			continue
		}
		if today < due.Format(item.DateLayout) {
			continue
		}

		instance, err := s.newInstance(ctx, sub, today)
		if err != nil {
			return renewed, err
		}

		inventory, err := s.items.ListInventory(ctx)
		if err != nil {
			return renewed, err
		}
		expired := make([]item.HistoryRecord, 0, 1)
		for _, open := range inventory {
			if open.Name != sub.Name {
				continue
			}
			rec, err := item.Checkout(open, today, 100, item.ModeSubscriptionAuto)
			if err != nil {
				return renewed, err
			}
			expired = append(expired, rec)
		}

		if err := s.items.AppendInventory(ctx, instance); err != nil {
			return renewed, err
		}
		if len(expired) > 0 {
			if err := s.items.AppendHistory(ctx, expired...); err != nil {
				return renewed, err
			}
			for _, rec := range expired {
				if err := s.items.DeleteInventoryItem(ctx, rec.ID); err != nil {
					return renewed, err
				}
			}
		}

		next, err := Advance(sub.Period, sub.Anchor, due)
		if err != nil {
			return renewed, err
		}
		sub.NextDate = next.Format(item.DateLayout)
		if err := s.repo.Put(ctx, sub); err != nil {
			return renewed, err
		}

		s.log.Info("subscription renewed",
			zap.String("name", sub.Name),
			zap.Int("expired", len(expired)),
			zap.String("nextDate", sub.NextDate))
		renewed = append(renewed, sub.Name)
	}

	return renewed, nil
}

// List returns all subscriptions sorted by name
func (s *Service) List(ctx context.Context) ([]Subscription, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })
	return subs, nil
}

// Remove deletes a subscription definition. Open instances stay in
// inventory until checked out by the user.
func (s *Service) Remove(ctx context.Context, name string) error {
	if _, err := s.repo.Get(ctx, name); err != nil {
		return err
	}
	return s.repo.Delete(ctx, name)
}

// Totals sums the recurring charges per period kind
func (s *Service) Totals(ctx context.Context) (Totals, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return Totals{}, err
	}
	totals := Totals{Count: len(subs)}
	for _, sub := range subs {
		switch sub.Period {
		case PeriodMonthly:
			totals.MonthlyTotal += sub.Price
		case PeriodYearly:
			totals.YearlyTotal += sub.Price
		}
	}
	return totals, nil
}

// newInstance builds the inventory item for one subscription charge
func (s *Service) newInstance(ctx context.Context, sub Subscription, date string) (item.Item, error) {
	engine, err := s.rates.Engine(ctx)
	if err != nil {
		return item.Item{}, err
	}
	rate, err := engine.Rate(sub.Currency, date)
	if err != nil {
		return item.Item{}, err
	}

	return item.Item{
		ID:            item.NewID(sub.Name, s.Now()),
		Name:          sub.Name,
		Category:      sub.Category,
		ActualPrice:   sub.Price,
		StandardPrice: sub.Price,
		Currency:      sub.Currency,
		PurchaseDate:  date,
		Source:        sub.Source,
		Account:       sub.Account,
		InvoiceName:   invoicePrefix + sub.Name,
		Discount:      0,
		PurchaseRate:  rate,
	}, nil
}
