package ingest

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hausbuch/hausbuch/internal/domain/catalog"
	"github.com/hausbuch/hausbuch/internal/domain/deposit"
	"github.com/hausbuch/hausbuch/internal/domain/item"
	"github.com/hausbuch/hausbuch/internal/domain/rates"
	"github.com/hausbuch/hausbuch/internal/domain/subscription"
)

// Summary reports what one accepted purchase block did
type Summary struct {
	BatchID          string
	ItemCount        int
	TotalsByCurrency map[string]float64
	DepositsReturned int
}

// Service runs the full ingestion cycle: quick-input expansion, parsing,
// catalog registration and persistence. The store is only touched once the
// whole block has parsed; a rejected block persists nothing.
type Service struct {
	items          item.Repository
	itemSvc        *item.Service
	catalogRepo    catalog.Repository
	catalogSvc     *catalog.Service
	deposits       deposit.Repository
	rates          *rates.Service
	subs           *subscription.Service
	depositKeyword string
	log            *zap.Logger

	// Now is the ingestion clock; overridable in tests
	Now func() time.Time
}

// NewService creates a new ingest service
func NewService(
	items item.Repository,
	itemSvc *item.Service,
	catalogRepo catalog.Repository,
	catalogSvc *catalog.Service,
	deposits deposit.Repository,
	ratesSvc *rates.Service,
	subs *subscription.Service,
	depositKeyword string,
	log *zap.Logger,
) *Service {
	return &Service{
		items:          items,
		itemSvc:        itemSvc,
		catalogRepo:    catalogRepo,
		catalogSvc:     catalogSvc,
		deposits:       deposits,
		rates:          ratesSvc,
		subs:           subs,
		depositKeyword: depositKeyword,
		log:            log,
		Now:            time.Now,
	}
}

// ExpandText runs quick-input expansion against the current catalogs. The
// CLI shows the expanded text before submission, like the dashboard did.
func (s *Service) ExpandText(ctx context.Context, text string) (string, error) {
	products, err := s.catalogRepo.ListProducts(ctx)
	if err != nil {
		return "", err
	}
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return "", err
	}
	accounts, err := s.catalogRepo.ListAccounts(ctx)
	if err != nil {
		return "", err
	}
	return Expand(text, products, categories, accounts), nil
}

// IngestPurchases expands and parses a purchase block, then persists its
// items, catalog registrations, deposit increments and deposit returns
func (s *Service) IngestPurchases(ctx context.Context, text string) (Summary, error) {
	expanded, err := s.ExpandText(ctx, text)
	if err != nil {
		return Summary{}, err
	}

	engine, err := s.rates.Engine(ctx)
	if err != nil {
		return Summary{}, err
	}

	parser := NewParser(engine, s.depositKeyword, s.Now())
	block, err := parser.ParsePurchases(expanded)
	if err != nil {
		return Summary{}, err
	}
	if len(block.Items) == 0 && len(block.Returns) == 0 {
		return Summary{}, ErrEmptyResult
	}

	// All in-memory transformation succeeded; writes start here
	for _, it := range block.Items {
		if err := s.catalogSvc.EnsureProduct(ctx, catalog.Product{
			Name:          it.Name,
			StandardPrice: it.StandardPrice,
			Currency:      it.Currency,
			Category:      it.Category,
			Buyout:        true,
		}); err != nil {
			return Summary{}, err
		}
		if err := s.catalogSvc.RecordPurchase(ctx, it.Name); err != nil {
			return Summary{}, err
		}
		if err := s.catalogSvc.RegisterCategory(ctx, it.Category); err != nil {
			return Summary{}, err
		}
		if err := s.catalogSvc.RegisterAccount(ctx, it.Source); err != nil {
			return Summary{}, err
		}
		if err := s.catalogSvc.RegisterAccount(ctx, it.Account); err != nil {
			return Summary{}, err
		}
	}

	if len(block.Items) > 0 {
		if err := s.items.AppendInventory(ctx, block.Items...); err != nil {
			return Summary{}, err
		}
	}

	if len(block.DepositNames) > 0 {
		ledger, err := s.deposits.Load(ctx)
		if err != nil {
			return Summary{}, err
		}
		for _, name := range block.DepositNames {
			ledger.Increment(name)
		}
		if err := s.deposits.Save(ctx, ledger); err != nil {
			return Summary{}, err
		}
	}

	returned := 0
	for _, ret := range block.Returns {
		matched, err := s.itemSvc.ApplyDepositReturn(ctx, ret)
		if err != nil {
			return Summary{}, err
		}
		returned += matched
	}

	summary := Summary{
		BatchID:          ulid.Make().String(),
		ItemCount:        len(block.Items),
		TotalsByCurrency: make(map[string]float64),
		DepositsReturned: returned,
	}
	for _, it := range block.Items {
		summary.TotalsByCurrency[it.Currency] += it.ActualPrice
	}

	s.log.Info("purchase block ingested",
		zap.String("batch", summary.BatchID),
		zap.Int("items", summary.ItemCount),
		zap.Int("depositsReturned", returned))
	return summary, nil
}

// IngestSubscriptions parses a subscription block and registers every
// definition it contains
func (s *Service) IngestSubscriptions(ctx context.Context, text string) ([]subscription.Subscription, error) {
	engine, err := s.rates.Engine(ctx)
	if err != nil {
		return nil, err
	}

	parser := NewParser(engine, s.depositKeyword, s.Now())
	subs, err := parser.ParseSubscriptions(text)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, ErrEmptyResult
	}

	for _, sub := range subs {
		if err := s.subs.Register(ctx, sub); err != nil {
			return subs, err
		}
	}

	s.log.Info("subscription block ingested", zap.Int("subscriptions", len(subs)))
	return subs, nil
}
