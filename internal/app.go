package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/s-larionov/process-manager"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/goverland-labs/goverland-profile-storage/internal/cache"
	"github.com/goverland-labs/goverland-profile-storage/internal/config"
	"github.com/goverland-labs/goverland-profile-storage/internal/metrics"
	"github.com/goverland-labs/goverland-profile-storage/internal/profile"
	"github.com/goverland-labs/goverland-profile-storage/internal/remote"
	"github.com/goverland-labs/goverland-profile-storage/pkg/grpcsrv"
	"github.com/goverland-labs/goverland-profile-storage/pkg/health"
	"github.com/goverland-labs/goverland-profile-storage/pkg/prometheus"
)

type Application struct {
	sigChan <-chan os.Signal
	manager *process.Manager
	cfg     config.App

	db     *gorm.DB
	nc     *nats.Conn
	medium cache.Medium
	remote profile.RemoteStore
	checks map[string]health.Checker

	ps *profile.Service
}

func NewApplication(cfg config.App) (*Application, error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	a := &Application{
		sigChan: sigChan,
		cfg:     cfg,
		manager: process.NewManager(),
		checks:  make(map[string]health.Checker),
	}

	err := a.bootstrap()
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Application) Run() {
	a.manager.StartAll()
	a.registerShutdown()
}

func (a *Application) bootstrap() error {
	initializers := []func() error{
		// Init Dependencies
		a.initCacheMedium,
		a.initRemoteStore,
		a.initNats,
		a.initServices,

		// Init Workers: Application
		a.initAPI,
		a.initGrpcAPI,

		// Init Workers: System
		a.initPrometheusWorker,
		a.initHealthWorker,
	}

	for _, initializer := range initializers {
		if err := initializer(); err != nil {
			return err
		}
	}

	return nil
}

func (a *Application) initCacheMedium() error {
	switch a.cfg.Cache.Medium {
	case config.CacheMediumMemory:
		a.medium = cache.NewMemoryMedium()
	case config.CacheMediumRedis:
		rc := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		a.medium = cache.NewRedisMedium(rc)
		a.checks["redis"] = func(ctx context.Context) error {
			return rc.Ping(ctx).Err()
		}
	default:
		return fmt.Errorf("unknown cache medium: %s", a.cfg.Cache.Medium)
	}

	return nil
}

func (a *Application) initRemoteStore() error {
	switch a.cfg.Remote.Backend {
	case config.RemoteBackendPostgres:
		if err := a.initDB(); err != nil {
			return fmt.Errorf("init db: %w", err)
		}
		a.remote = remote.NewPostgresStore(a.db)
	case config.RemoteBackendVault:
		cli, err := a.initVault()
		if err != nil {
			return fmt.Errorf("init vault: %w", err)
		}
		a.remote = remote.NewVaultStore(cli.Logical(), a.cfg.Vault.BasePath, a.cfg.Vault.MetadataPath)
		a.checks["vault"] = func(ctx context.Context) error {
			_, err := cli.Sys().HealthWithContext(ctx)
			return err
		}
	case config.RemoteBackendMemory:
		a.remote = remote.NewMemoryStore()
	default:
		return fmt.Errorf("unknown remote backend: %s", a.cfg.Remote.Backend)
	}

	return nil
}

func (a *Application) initDB() error {
	db, err := gorm.Open(postgres.Open(a.cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	ps, err := db.DB()
	if err != nil {
		return err
	}
	ps.SetMaxOpenConns(a.cfg.DB.MaxOpenConnections)

	a.db = db
	if a.cfg.DB.Debug {
		a.db = db.Debug()
	}

	if err = a.db.AutoMigrate(&remote.Record{}); err != nil {
		return fmt.Errorf("migrate remote records: %w", err)
	}

	a.checks["postgres"] = func(ctx context.Context) error {
		return ps.PingContext(ctx)
	}

	return nil
}

func (a *Application) initVault() (*vaultapi.Client, error) {
	vc := vaultapi.DefaultConfig()
	vc.Address = a.cfg.Vault.Address
	vc.HttpClient.Transport = metrics.NewRequestWatcher("vault_http", vc.HttpClient.Transport)

	cli, err := vaultapi.NewClient(vc)
	if err != nil {
		return nil, err
	}
	cli.SetToken(a.cfg.Vault.Token)

	return cli, nil
}

func (a *Application) initNats() error {
	if a.cfg.Nats.URL == "" {
		return nil
	}

	nc, err := nats.Connect(
		a.cfg.Nats.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(a.cfg.Nats.MaxReconnects),
		nats.ReconnectWait(a.cfg.Nats.ReconnectTimeout),
	)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}

	a.nc = nc
	a.checks["nats"] = func(context.Context) error {
		if !nc.IsConnected() {
			return fmt.Errorf("nats status: %s", nc.Status())
		}
		return nil
	}

	return nil
}

func (a *Application) initServices() error {
	store := cache.NewStore(a.medium, cache.WithDefaultTTL(a.cfg.Cache.DefaultTTL))

	var notifier *profile.Notifier
	if a.nc != nil {
		notifier = profile.NewNotifier(a.nc, a.cfg.Nats.SubjectPrefix)
	}

	repo := profile.NewRepo(a.remote, store, notifier)
	dir := profile.NewDirectory(a.remote, store)
	a.ps = profile.NewService(repo, dir)

	return nil
}

func (a *Application) initAPI() error {
	srv := &http.Server{
		Addr:              a.cfg.API.HTTPBind,
		Handler:           profile.NewServer(a.ps).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.manager.AddWorker(process.NewServerWorker("API", srv))

	return nil
}

func (a *Application) initGrpcAPI() error {
	srv, hs := grpcsrv.NewGrpcServer()
	w := grpcsrv.NewGrpcServerWorker(srv, hs, a.cfg.API.GRPCBind)
	a.manager.AddWorker(process.NewCallbackWorker("grpc-health", w.Start))

	return nil
}

func (a *Application) initPrometheusWorker() error {
	srv := prometheus.NewServer(a.cfg.Prometheus.Listen, "/metrics")
	a.manager.AddWorker(process.NewServerWorker("prometheus", srv))

	return nil
}

func (a *Application) initHealthWorker() error {
	srv := health.NewHealthCheckServer(a.cfg.Health.Listen, "/status", health.DefaultHandler(a.checks))
	a.manager.AddWorker(process.NewServerWorker("health", srv))

	return nil
}

func (a *Application) registerShutdown() {
	go func(manager *process.Manager) {
		<-a.sigChan

		manager.StopAll()
	}(a.manager)

	a.manager.AwaitAll()

	if a.nc != nil {
		a.nc.Close()
	}
}
