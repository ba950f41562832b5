package cli

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hausbuch/hausbuch/internal/common/config"
	"github.com/hausbuch/hausbuch/internal/common/logging"
	"github.com/hausbuch/hausbuch/internal/domain/catalog"
	"github.com/hausbuch/hausbuch/internal/domain/deposit"
	"github.com/hausbuch/hausbuch/internal/domain/ingest"
	"github.com/hausbuch/hausbuch/internal/domain/item"
	"github.com/hausbuch/hausbuch/internal/domain/rates"
	"github.com/hausbuch/hausbuch/internal/domain/report"
	"github.com/hausbuch/hausbuch/internal/domain/subscription"
	ddbclient "github.com/hausbuch/hausbuch/internal/platform/dynamodb/client"
	ddbrepo "github.com/hausbuch/hausbuch/internal/platform/dynamodb/repository"
	"github.com/hausbuch/hausbuch/internal/platform/localstore"
)

// App holds the wired services behind the command tree
type App struct {
	Config *config.Config
	Log    *zap.Logger

	Items    item.Repository
	ItemSvc  *item.Service
	Catalog  catalog.Repository
	Deposits deposit.Repository
	Rates    *rates.Service
	Subs     *subscription.Service
	Ingest   *ingest.Service
	Reports  *report.Service
}

// newApp loads configuration and wires the service graph over the configured
// store backend
func newApp(ctx context.Context, configPath string, verbose bool) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logging.New(verbose)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	app := &App{Config: cfg, Log: log}

	switch cfg.StoreBackend {
	case config.BackendLocal:
		store, err := localstore.NewStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		app.Items = localstore.NewItemRepository(store)
		app.Catalog = localstore.NewCatalogRepository(store)
		app.Deposits = localstore.NewDepositRepository(store)
		app.Rates = rates.NewService(localstore.NewRateRepository(store), cfg.BaseCurrency)
		app.wireServices(localstore.NewSubscriptionRepository(store))
	case config.BackendDynamoDB:
		client, err := ddbclient.NewDynamoDBClient(ctx, cfg.DynamoDB.Region)
		if err != nil {
			return nil, fmt.Errorf("connecting to dynamodb: %w", err)
		}
		factory := ddbrepo.NewFactory(client, cfg.DynamoDB.TableName)
		app.Items = factory.ItemRepository()
		app.Catalog = factory.CatalogRepository()
		app.Deposits = factory.DepositRepository()
		app.Rates = rates.NewService(factory.RateRepository(), cfg.BaseCurrency)
		app.wireServices(factory.SubscriptionRepository())
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return app, nil
}

func (a *App) wireServices(subs subscription.Repository) {
	catalogSvc := catalog.NewService(a.Catalog)
	a.ItemSvc = item.NewService(a.Items, a.Deposits, a.Config.DepositKeyword, a.Log)
	a.Subs = subscription.NewService(subs, a.Items, catalogSvc, a.Rates, a.Log)
	a.Ingest = ingest.NewService(
		a.Items, a.ItemSvc, a.Catalog, catalogSvc, a.Deposits,
		a.Rates, a.Subs, a.Config.DepositKeyword, a.Log)
	a.Reports = report.NewService(a.Items, a.Rates, a.Log)
}

// renewalNotice runs the recurrence check and prints renewed subscription
// names. It runs before every command that reads or mutates inventory.
func (a *App) renewalNotice(ctx context.Context) error {
	renewed, err := a.Subs.CheckRenewals(ctx)
	if err != nil {
		return err
	}
	if len(renewed) > 0 {
		fmt.Printf("Renewed subscriptions: %s\n", strings.Join(renewed, ", "))
	}
	return nil
}

// Close flushes the logger
func (a *App) Close() {
	if a.Log != nil {
		_ = a.Log.Sync()
	}
}
