package trigger

import (
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/glowd/internal/controller"
	"github.com/dokzlo13/glowd/internal/eventbus"
)

// Intent tokens carried in intent events
const (
	IntentToggle      = "toggle"
	IntentBrightness  = "brightness"
	IntentTemperature = "temperature"
)

// RegisterHandlers subscribes the controller to intent events on the bus
func RegisterHandlers(bus *eventbus.Bus, ctrl *controller.Controller) {
	bus.Subscribe(eventbus.EventTypeIntent, func(event eventbus.Event) {
		handleIntentEvent(ctrl, event)
	})
}

func handleIntentEvent(ctrl *controller.Controller, event eventbus.Event) {
	intent, _ := event.Data["intent"].(string)
	rawDirection, _ := event.Data["direction"].(string)

	switch intent {
	case IntentToggle:
		ctrl.TogglePower()

	case IntentBrightness, IntentTemperature:
		dir, ok := controller.ParseDirection(rawDirection)
		if !ok {
			// Defensive: the trigger server only emits up/down, but the
			// bus is open to other publishers
			log.Debug().Str("intent", intent).Str("direction", rawDirection).Msg("Ignoring unknown direction")
			return
		}
		if intent == IntentBrightness {
			ctrl.StepBrightness(dir)
		} else {
			ctrl.StepTemperature(dir)
		}

	default:
		log.Debug().Str("intent", intent).Msg("Ignoring unknown intent")
	}
}
