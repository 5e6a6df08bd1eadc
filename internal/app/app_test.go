package app

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	redisClient "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/handler/http"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/logger"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/postgres"
	"github.com/sm8ta/webike_rental_storefront/internal/config"
	"github.com/sm8ta/webike_rental_storefront/internal/core/services"
)

func newTestApp(t *testing.T) (*App, sqlmock.Sqlmock) {
	t.Helper()
	log := logger.NewNop()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	mr := miniredis.RunT(t)
	rdb := redisClient.NewClient(&redisClient.Options{Addr: mr.Addr()})

	cfg := &config.Container{
		App:       &config.App{Name: "storefront-test", Env: "test"},
		Token:     &config.Token{Secret: "test-secret", Duration: time.Hour},
		HTTP:      &config.HTTP{Env: "test", Port: "0"},
		Workspace: &config.Workspace{IdleTTL: time.Minute, SweepInterval: time.Millisecond},
	}
	registry := services.NewRegistry(services.WorkspaceDeps{Logger: log}, cfg.Workspace.IdleTTL)
	tokens := http.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, log)
	router, err := http.NewRouter(cfg.HTTP, tokens, registry, http.CookieConfig{}, prometheus.NewRegistry(), log, http.Handlers{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:            ctx,
		cancel:         cancel,
		Config:         cfg,
		Logger:         log,
		DB:             db,
		RedisClient:    rdb,
		Sessions:       postgres.NewSessionRepository(db),
		Registry:       registry,
		HTTPRouter:     router,
		shutdownTracer: func(context.Context) error { return nil },
	}, mock
}

func TestStopBeforeRunStopsEverything(t *testing.T) {
	a, mock := newTestApp(t)

	require.NoError(t, a.Stop(context.Background()))
	assert.ErrorIs(t, a.ctx.Err(), context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Run after Stop must not start a server that nothing will shut down.
	done := make(chan error, 1)
	go func() { done <- a.Run() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept serving after Stop")
	}
}

func TestStopEndsBackgroundLoops(t *testing.T) {
	a, _ := newTestApp(t)

	done := make(chan struct{})
	go func() {
		a.Registry.Run(a.ctx, a.Config.Workspace.SweepInterval)
		a.pruneSessions(a.ctx)
		close(done)
	}()

	require.NoError(t, a.Stop(context.Background()))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("background loops still running after Stop")
	}
}
