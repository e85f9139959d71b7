// Package controller owns the desired device state and applies bounded
// mutations to it. Step intents are debounced into a single device update
// per quiet period; power toggles synchronize immediately.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dokzlo13/glowd/internal/config"
	"github.com/dokzlo13/glowd/internal/debounce"
	"github.com/dokzlo13/glowd/internal/keylight"
	"github.com/dokzlo13/glowd/internal/ledger"
	"github.com/dokzlo13/glowd/internal/notify"
)

// State is the controller's in-memory belief of what the device should
// show. It is authoritative regardless of device acknowledgment.
type State struct {
	Power       bool
	Brightness  int
	Temperature int
}

// LightEndpoint accepts a single state-update request per synchronization
type LightEndpoint interface {
	SetLights(ctx context.Context, group *keylight.LightGroup) error
}

// Controller holds the desired state and schedules synchronizations
type Controller struct {
	mu    sync.Mutex
	state State

	cfg   config.ControllerConfig
	delay time.Duration
	sched *debounce.Scheduler

	endpoint LightEndpoint
	limiter  *rate.Limiter
	notifier notify.Notifier
	ledger   *ledger.Ledger

	// Serializes outbound requests so an immediate toggle sync and a
	// debounced step sync never overlap on the endpoint
	sendMu sync.Mutex
}

// New creates a controller with the configured bounds and defaults.
// The ledger may be nil to disable sync history.
func New(cfg config.ControllerConfig, endpoint LightEndpoint, notifier notify.Notifier, l *ledger.Ledger) *Controller {
	if notifier == nil {
		notifier = notify.NewLogNotifier()
	}

	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 10.0
	}

	return &Controller{
		state: State{
			Power:       false,
			Brightness:  cfg.BrightnessDefault,
			Temperature: cfg.TemperatureDefault,
		},
		cfg:      cfg,
		delay:    cfg.DebounceDelay.Duration(),
		sched:    debounce.NewScheduler(),
		endpoint: endpoint,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		notifier: notifier,
		ledger:   l,
	}
}

// State returns a snapshot of the desired state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TogglePower flips the power state and synchronizes immediately.
// It does not cancel a pending debounced synchronization.
func (c *Controller) TogglePower() {
	c.mu.Lock()
	c.state.Power = !c.state.Power
	power := c.state.Power
	c.mu.Unlock()

	log.Debug().Bool("power", power).Msg("Power toggled")
	c.SynchronizeNow(context.Background())
}

// StepBrightness adjusts brightness by one configured step, clamped to the
// configured bounds, and schedules a debounced synchronization. An unknown
// direction leaves state untouched and schedules nothing.
func (c *Controller) StepBrightness(dir Direction) {
	c.mu.Lock()
	switch dir {
	case DirectionUp:
		c.state.Brightness = min(c.state.Brightness+c.cfg.BrightnessStep, c.cfg.BrightnessMax)
	case DirectionDown:
		c.state.Brightness = max(c.state.Brightness-c.cfg.BrightnessStep, c.cfg.BrightnessMin)
	default:
		c.mu.Unlock()
		return
	}
	brightness := c.state.Brightness
	c.mu.Unlock()

	log.Debug().Str("direction", string(dir)).Int("brightness", brightness).Msg("Brightness stepped")
	c.scheduleSync()
}

// StepTemperature adjusts color temperature by one configured step,
// symmetric to StepBrightness.
func (c *Controller) StepTemperature(dir Direction) {
	c.mu.Lock()
	switch dir {
	case DirectionUp:
		c.state.Temperature = min(c.state.Temperature+c.cfg.TemperatureStep, c.cfg.TemperatureMax)
	case DirectionDown:
		c.state.Temperature = max(c.state.Temperature-c.cfg.TemperatureStep, c.cfg.TemperatureMin)
	default:
		c.mu.Unlock()
		return
	}
	temperature := c.state.Temperature
	c.mu.Unlock()

	log.Debug().Str("direction", string(dir)).Int("temperature", temperature).Msg("Temperature stepped")
	c.scheduleSync()
}

// scheduleSync arms (or re-arms) the single debounced synchronization
func (c *Controller) scheduleSync() {
	c.sched.Schedule(func() {
		c.SynchronizeNow(context.Background())
	}, c.delay)
}

// PendingSync reports whether a debounced synchronization is armed
func (c *Controller) PendingSync() bool {
	return c.sched.Pending()
}

// SynchronizeNow sends the current desired state to the light endpoint.
// Failures are logged, surfaced through the notifier and recorded in the
// ledger; the in-memory state is left untouched, so the next intent retries
// with the latest snapshot. There is no automatic background retry.
func (c *Controller) SynchronizeNow(ctx context.Context) {
	snapshot := c.State()
	requestID := uuid.NewString()

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("Synchronization aborted while rate limited")
		return
	}

	group := buildLightGroup(snapshot)

	if err := c.endpoint.SetLights(ctx, group); err != nil {
		log.Error().
			Err(err).
			Str("request_id", requestID).
			Bool("power", snapshot.Power).
			Int("brightness", snapshot.Brightness).
			Int("temperature", snapshot.Temperature).
			Msg("Failed to synchronize light state")

		c.notifier.Notify("Light sync failed", err.Error())
		c.record(ledger.EventSyncFailed, requestID, snapshot, err)
		return
	}

	log.Info().
		Str("request_id", requestID).
		Bool("power", snapshot.Power).
		Int("brightness", snapshot.Brightness).
		Int("temperature", snapshot.Temperature).
		Msg("Light state synchronized")

	c.record(ledger.EventSyncCompleted, requestID, snapshot, nil)
}

// Stop cancels any pending debounced synchronization
func (c *Controller) Stop() {
	c.sched.Stop()
}

func (c *Controller) record(eventType ledger.EventType, requestID string, snapshot State, cause error) {
	if c.ledger == nil {
		return
	}

	payload := map[string]any{
		"power":       snapshot.Power,
		"brightness":  snapshot.Brightness,
		"temperature": snapshot.Temperature,
	}
	if cause != nil {
		payload["error"] = cause.Error()
	}

	if err := c.ledger.Append(eventType, requestID, payload); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("Failed to record sync event")
	}
}

// buildLightGroup converts a state snapshot to the device wire format
func buildLightGroup(s State) *keylight.LightGroup {
	on := 0
	if s.Power {
		on = 1
	}

	return &keylight.LightGroup{
		NumberOfLights: 1,
		Lights: []keylight.Light{
			{
				On:          on,
				Brightness:  s.Brightness,
				Temperature: s.Temperature,
			},
		},
	}
}
