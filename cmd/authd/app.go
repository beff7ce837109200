package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kyedev/authd/internal/db"
	"github.com/kyedev/authd/internal/handlers"
	"github.com/kyedev/authd/internal/logger"
	"github.com/kyedev/authd/internal/repository/postgres"
	"github.com/kyedev/authd/internal/seed"
	"github.com/kyedev/authd/internal/service/auth"
	"github.com/kyedev/authd/internal/service/auth/tokenmanager"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger  logger.Logger
	sweeper *auth.Sweeper
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		SecretKey:     c.SecretKey,
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL,
		RotateRefresh: c.RotateRefresh,
	}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{}, tokenManager, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	// Built-in roles have to exist before the first registration
	seeder := seed.New(storage, auth.BcryptHasher{}, logger)
	if c.SeedDemoData {
		err = seeder.Run(ctx)
	} else {
		err = seeder.SeedRoles(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("error while seeding database. Err: %w", err)
	}

	mux := handlers.NewRouter(authService, storage.User(), logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     logger,
		sweeper:    auth.NewSweeper(tokenManager, c.PurgeInterval, logger),
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	// Purge expired refresh tokens while the server runs
	go s.sweeper.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
