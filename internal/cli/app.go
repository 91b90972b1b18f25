package cli

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hongminglow/vault-console/internal/auth"
	"github.com/hongminglow/vault-console/internal/authapi"
	"github.com/hongminglow/vault-console/internal/config"
	"github.com/hongminglow/vault-console/internal/session"
	"github.com/hongminglow/vault-console/internal/storage"
	"github.com/hongminglow/vault-console/internal/storage/memory"
	"github.com/hongminglow/vault-console/internal/storage/postgres"
	"github.com/hongminglow/vault-console/internal/storage/redis"
	"github.com/hongminglow/vault-console/internal/storage/sqlite"
)

// App is the application root: it owns the one session controller of a run
// and everything the commands need to reach the backend.
type App struct {
	Config  config.Config
	Log     *zap.Logger
	API     *authapi.Client
	Session *auth.Controller
	Nav     *consoleNavigator

	kv storage.KV
}

// NewApp opens the configured store, wires the controller and boots it.
func NewApp(ctx context.Context, cfg config.Config, log *zap.Logger, out, errOut io.Writer) (*App, error) {
	kv, err := openKV(ctx, cfg)
	if err != nil {
		return nil, err
	}

	api := authapi.NewClient(cfg.APIBaseURL, log)
	nav := &consoleNavigator{out: out}
	ctrl := auth.NewController(
		api,
		session.NewStore(kv, cfg.Origin, log),
		nav,
		consoleNotifier{out: errOut},
		auth.WithLogger(log),
		auth.WithFeatureAccessBypass(cfg.Development() && cfg.FeatureBypass),
	)
	ctrl.Boot(ctx)

	return &App{
		Config:  cfg,
		Log:     log,
		API:     api,
		Session: ctrl,
		Nav:     nav,
		kv:      kv,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.kv.Close()
}

func openKV(ctx context.Context, cfg config.Config) (storage.KV, error) {
	switch cfg.StoreKind {
	case config.StoreSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	case config.StoreRedis:
		return redis.Open(ctx, cfg.RedisURL)
	case config.StorePostgres:
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	case config.StoreMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.StoreKind)
	}
}
