package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/glowd/internal/config"
	"github.com/dokzlo13/glowd/internal/eventbus"
	"github.com/dokzlo13/glowd/internal/trigger"
)

// TriggerService wraps the trigger HTTP server.
type TriggerService struct {
	cfg    *config.Config
	server *trigger.Server
}

// NewTriggerService creates a new TriggerService.
func NewTriggerService(cfg *config.Config, bus *eventbus.Bus) *TriggerService {
	server := trigger.NewServer(cfg.Trigger.Host, cfg.Trigger.Port, bus)
	return &TriggerService{
		cfg:    cfg,
		server: server,
	}
}

// Start begins the trigger server if enabled.
func (s *TriggerService) Start(ctx context.Context) {
	if !s.cfg.Trigger.Enabled {
		log.Debug().Msg("Trigger server disabled")
		return
	}

	go func() {
		if err := s.server.Run(ctx, s.cfg.ShutdownTimeout.Duration()); err != nil {
			log.Error().Err(err).Msg("Trigger server error")
		}
	}()
}
