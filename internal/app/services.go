package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/glowd/internal/config"
	"github.com/dokzlo13/glowd/internal/controller"
	"github.com/dokzlo13/glowd/internal/db"
	"github.com/dokzlo13/glowd/internal/eventbus"
	"github.com/dokzlo13/glowd/internal/keylight"
	"github.com/dokzlo13/glowd/internal/ledger"
	"github.com/dokzlo13/glowd/internal/notify"
	"github.com/dokzlo13/glowd/internal/trigger"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	DB     *db.DB
	Ledger *ledger.Ledger
	Bus    *eventbus.Bus

	// Device access
	Light *keylight.Client

	// Domain
	Controller *controller.Controller

	// High-level services
	Trigger *TriggerService
	Health  *HealthService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	// Initialize database
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.DB = database

	// Initialize sync ledger
	s.Ledger = ledger.New(database.DB)

	// Initialize event bus
	s.Bus = eventbus.NewWithConfig(cfg.EventBus.GetWorkers(), cfg.EventBus.GetQueueSize())

	// Initialize key light client
	s.Light = keylight.NewClient(cfg.Light.Host, cfg.Light.Port, cfg.Light.Timeout.Duration())

	// Initialize controller
	s.Controller = controller.New(cfg.Controller, s.Light, notify.NewLogNotifier(), s.Ledger)

	// Initialize trigger server
	s.Trigger = NewTriggerService(cfg, s.Bus)

	// Initialize health service
	s.Health = NewHealthService(cfg)

	return s, nil
}

// Start starts all services in the correct order.
func (s *Services) Start(ctx context.Context) error {
	// Probe the device; an unreachable light is not fatal, the next
	// intent simply retries with the latest state
	if err := s.Light.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Key light not reachable at startup, will retry on next intent")
	}

	// Register intent handlers before the trigger server starts accepting
	trigger.RegisterHandlers(s.Bus, s.Controller)

	s.Trigger.Start(ctx)
	s.Health.Start(ctx)

	return nil
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Controller != nil {
		s.Controller.Stop()
	}
	if s.Bus != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		s.Bus.Close(shutdownCtx)
		cancel()
	}
	if s.Light != nil {
		s.Light.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}

func (s *Services) shutdownTimeout() time.Duration {
	if s.cfg == nil || s.cfg.ShutdownTimeout == 0 {
		return 5 * time.Second
	}
	return s.cfg.ShutdownTimeout.Duration()
}
