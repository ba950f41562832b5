package item

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hausbuch/hausbuch/internal/domain/deposit"
)

// Service provides item lifecycle operations. Every operation is a full
// read-modify-write cycle: transitions are computed in memory first and the
// store is only written once all of them have succeeded.
type Service struct {
	repo           Repository
	deposits       deposit.Repository
	depositKeyword string
	log            *zap.Logger

	// Now is the clock used for checkout dates; overridable in tests
	Now func() time.Time
}

// NewService creates a new item lifecycle service
func NewService(repo Repository, deposits deposit.Repository, depositKeyword string, log *zap.Logger) *Service {
	return &Service{
		repo:           repo,
		deposits:       deposits,
		depositKeyword: depositKeyword,
		log:            log,
		Now:            time.Now,
	}
}

// CheckOut archives inventory items as used, with a user-supplied
// utilization percentage
func (s *Service) CheckOut(ctx context.Context, ids []string, utilization int) error {
	date := s.Now().Format(DateLayout)

	records := make([]HistoryRecord, 0, len(ids))
	for _, id := range ids {
		it, err := s.repo.GetInventoryItem(ctx, id)
		if err != nil {
			return err
		}
		rec, err := Checkout(it, date, utilization, ModeNormal)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	if err := s.repo.AppendHistory(ctx, records...); err != nil {
		return err
	}
	for _, rec := range records {
		if err := s.repo.DeleteInventoryItem(ctx, rec.ID); err != nil {
			return err
		}
	}

	s.log.Info("items checked out", zap.Int("count", len(records)), zap.Int("utilization", utilization))
	return nil
}

// Sell archives inventory items as sold at the given price and account
func (s *Service) Sell(ctx context.Context, ids []string, price float64, account string) error {
	date := s.Now().Format(DateLayout)

	records := make([]SoldRecord, 0, len(ids))
	for _, id := range ids {
		it, err := s.repo.GetInventoryItem(ctx, id)
		if err != nil {
			return err
		}
		rec, err := Sell(it, date, price, account)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	if err := s.repo.AppendSold(ctx, records...); err != nil {
		return err
	}
	for _, rec := range records {
		if err := s.repo.DeleteInventoryItem(ctx, rec.ID); err != nil {
			return err
		}
	}

	s.log.Info("items sold", zap.Int("count", len(records)), zap.Float64("price", price))
	return nil
}

// MarkLost moves inventory items to the lost collection
func (s *Service) MarkLost(ctx context.Context, ids []string) error {
	date := s.Now().Format(DateLayout)

	records := make([]LostRecord, 0, len(ids))
	for _, id := range ids {
		it, err := s.repo.GetInventoryItem(ctx, id)
		if err != nil {
			return err
		}
		records = append(records, MarkLost(it, date))
	}

	if err := s.repo.AppendLost(ctx, records...); err != nil {
		return err
	}
	for _, rec := range records {
		if err := s.repo.DeleteInventoryItem(ctx, rec.ID); err != nil {
			return err
		}
	}

	s.log.Info("items marked lost", zap.Int("count", len(records)))
	return nil
}

// Recover restores lost items to inventory with their original attributes
func (s *Service) Recover(ctx context.Context, ids []string) error {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		lr, err := s.repo.GetLostItem(ctx, id)
		if err != nil {
			return err
		}
		items = append(items, Recover(lr))
	}

	if err := s.repo.AppendInventory(ctx, items...); err != nil {
		return err
	}
	for _, it := range items {
		if err := s.repo.DeleteLostItem(ctx, it.ID); err != nil {
			return err
		}
	}

	s.log.Info("items recovered", zap.Int("count", len(items)))
	return nil
}

// Delete removes inventory items without archiving them. Used for error
// correction and AA settlement; deleted items never show up in trends.
func (s *Service) Delete(ctx context.Context, ids []string) error {
	// Verify all IDs first so a typo cannot half-apply the batch
	for _, id := range ids {
		if _, err := s.repo.GetInventoryItem(ctx, id); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if err := s.repo.DeleteInventoryItem(ctx, id); err != nil {
			return err
		}
	}

	s.log.Info("items deleted", zap.Int("count", len(ids)))
	return nil
}

// ApplyDepositReturn settles a deposit-return event against open
// deposit-bearing inventory: up to ret.Count items, oldest purchase first,
// move to history with mode pfand_return and the ledger drops by the number
// matched. Returns how many items were matched.
func (s *Service) ApplyDepositReturn(ctx context.Context, ret deposit.Return) (int, error) {
	inventory, err := s.repo.ListInventory(ctx)
	if err != nil {
		return 0, err
	}

	open := make([]Item, 0)
	for _, it := range inventory {
		if IsDepositBearing(it, s.depositKeyword) {
			open = append(open, it)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].PurchaseDate != open[j].PurchaseDate {
			return open[i].PurchaseDate < open[j].PurchaseDate
		}
		return open[i].ID < open[j].ID
	})
	if len(open) > ret.Count {
		open = open[:ret.Count]
	}

	records := make([]HistoryRecord, 0, len(open))
	for _, it := range open {
		rec, err := Checkout(it, ret.Date, 100, ModePfandReturn)
		if err != nil {
			return 0, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return 0, nil
	}

	if err := s.repo.AppendHistory(ctx, records...); err != nil {
		return 0, err
	}
	for _, rec := range records {
		if err := s.repo.DeleteInventoryItem(ctx, rec.ID); err != nil {
			return 0, err
		}
	}

	ledger, err := s.deposits.Load(ctx)
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		ledger.Decrement(rec.Name, 1)
	}
	if err := s.deposits.Save(ctx, ledger); err != nil {
		return 0, err
	}

	s.log.Info("deposit return applied",
		zap.Int("requested", ret.Count),
		zap.Int("matched", len(records)),
		zap.Float64("refund", ret.Amount))
	return len(records), nil
}
