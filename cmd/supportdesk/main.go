// Command supportdesk is a multi-agent support assistant. Questions are
// routed to a policy agent backed by indexed PDFs or to a customer agent
// backed by a customer database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/supportdesk/internal/adapters/driven/ai"
	"github.com/custodia-labs/supportdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/supportdesk/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/supportdesk/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/supportdesk/internal/adapters/driving/cli"
	"github.com/custodia-labs/supportdesk/internal/config"
	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/core/services"
	"github.com/custodia-labs/supportdesk/internal/extractors/pdf"
	"github.com/custodia-labs/supportdesk/internal/logger"
	"github.com/custodia-labs/supportdesk/internal/metrics"
	"github.com/custodia-labs/supportdesk/internal/postprocessors"
)

// version is set via ldflags at build time.
var version = "dev"

// customerBackend is a customer store that can also be seeded and closed.
type customerBackend interface {
	driven.CustomerStore
	driven.CustomerSeeder
	Close() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	env, err := config.LoadEnv("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	configStore, err := file.NewConfigStore(config.DataDir(env))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open config: %v\n", err)
		return err
	}

	level, pretty := config.LogSettings(env, configStore)
	if level != "" {
		if err := logger.SetLevel(level); err != nil {
			logger.Warn("ignoring log level %q: %v", level, err)
		}
	}
	logger.SetPretty(pretty)

	settings := config.Resolve(env, configStore)

	cli.SetVersion(version)
	cli.SetServiceLoader(func(ctx context.Context, opts cli.LoadOptions) (*cli.Services, error) {
		return buildServices(ctx, settings, opts)
	})

	return cli.Execute(ctx)
}

// buildServices constructs every backend and service from settings.
// Commands that answer or index ask for the model providers to be pinged
// first, so an unreachable backend fails at startup.
func buildServices(ctx context.Context, settings domain.AppSettings, opts cli.LoadOptions) (*cli.Services, error) {
	logger.Section("Initialising services")

	aiServices, err := ai.Init(ctx, settings, ai.InitOptions{Validate: opts.Validate})
	if err != nil {
		return nil, err
	}

	store, err := openCustomerStore(ctx, settings.Database)
	if err != nil {
		aiServices.Close()
		return nil, err
	}

	policy := services.NewPolicyService(pdf.New(), postprocessors.NewBuilder(), aiServices.VectorStore)
	policy.SetDefaults(settings.Retrieval, settings.Namespace)

	customer := services.NewCustomerService(store, aiServices.LLMService)
	customer.SetPromptStore(aiServices.PromptStore)

	m := metrics.New()
	policyAgent := metrics.InstrumentPolicyAgent(policy, m)
	customerAgent := metrics.InstrumentCustomerAgent(customer, m)

	router, err := services.NewRouterService(nil, policyAgent, customerAgent)
	if err != nil {
		aiServices.Close()
		store.Close()
		return nil, err
	}

	return &cli.Services{
		Router:    metrics.InstrumentRouter(router, m),
		Policy:    policyAgent,
		Customer:  customerAgent,
		Directory: customer,
		Seed:      services.NewSeedService(store),
		Metrics:   m.Handler(),
		Close: func() error {
			return errors.Join(aiServices.Close(), store.Close())
		},
	}, nil
}

// openCustomerStore opens Postgres when a postgres URL is configured and
// the SQLite file otherwise.
func openCustomerStore(ctx context.Context, db domain.DatabaseSettings) (customerBackend, error) {
	if db.IsPostgres() {
		logger.Debug("customer store: postgres")
		store, err := postgres.NewStore(ctx, db.URL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	logger.Debug("customer store: sqlite %s", db.Path)
	store, err := sqlite.NewStore(db.Path)
	if err != nil {
		return nil, err
	}
	return store, nil
}
