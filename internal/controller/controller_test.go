package controller

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dokzlo13/glowd/internal/config"
	"github.com/dokzlo13/glowd/internal/keylight"
)

// fakeEndpoint records every light group it receives
type fakeEndpoint struct {
	mu    sync.Mutex
	calls []keylight.LightGroup
	err   error
}

func (f *fakeEndpoint) SetLights(ctx context.Context, group *keylight.LightGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, *group)
	return f.err
}

func (f *fakeEndpoint) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeEndpoint) lastCall() keylight.LightGroup {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeEndpoint) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func testConfig(debounce time.Duration) config.ControllerConfig {
	return config.ControllerConfig{
		BrightnessMin:      3,
		BrightnessMax:      100,
		BrightnessStep:     10,
		BrightnessDefault:  50,
		TemperatureMin:     143,
		TemperatureMax:     344,
		TemperatureStep:    10,
		TemperatureDefault: 170,
		DebounceDelay:      config.Duration(debounce),
		RateLimitRPS:       1000, // effectively unlimited in tests
	}
}

type silentNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *silentNotifier) Notify(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func newTestController(debounce time.Duration) (*Controller, *fakeEndpoint, *silentNotifier) {
	endpoint := &fakeEndpoint{}
	notifier := &silentNotifier{}
	c := New(testConfig(debounce), endpoint, notifier, nil)
	return c, endpoint, notifier
}

func TestInitialState(t *testing.T) {
	c, _, _ := newTestController(time.Hour)

	got := c.State()
	want := State{Power: false, Brightness: 50, Temperature: 170}
	if got != want {
		t.Errorf("initial state = %+v, want %+v", got, want)
	}
}

func TestStepBrightness_StaysWithinBounds(t *testing.T) {
	tests := []struct {
		name string
		dirs []Direction
		want int
	}{
		{"single up", []Direction{DirectionUp}, 60},
		{"single down", []Direction{DirectionDown}, 40},
		{"up clamps at max", repeat(DirectionUp, 20), 100},
		{"down clamps at min", repeat(DirectionDown, 20), 3},
		{"mixed stays bounded", append(repeat(DirectionDown, 30), DirectionUp, DirectionUp), 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(time.Hour)
			for _, d := range tt.dirs {
				c.StepBrightness(d)
			}
			if got := c.State().Brightness; got != tt.want {
				t.Errorf("brightness = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStepTemperature_StaysWithinBounds(t *testing.T) {
	tests := []struct {
		name string
		dirs []Direction
		want int
	}{
		{"single up", []Direction{DirectionUp}, 180},
		{"single down", []Direction{DirectionDown}, 160},
		{"up clamps at max", repeat(DirectionUp, 50), 344},
		{"down clamps at min", repeat(DirectionDown, 50), 143},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(time.Hour)
			for _, d := range tt.dirs {
				c.StepTemperature(d)
			}
			if got := c.State().Temperature; got != tt.want {
				t.Errorf("temperature = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStepAtMax_DoesNotOverflow(t *testing.T) {
	c, _, _ := newTestController(time.Hour)

	for i := 0; i < 10; i++ {
		c.StepBrightness(DirectionUp)
	}
	if got := c.State().Brightness; got != 100 {
		t.Fatalf("brightness = %d, want 100 before overflow check", got)
	}

	c.StepBrightness(DirectionUp)
	if got := c.State().Brightness; got != 100 {
		t.Errorf("brightness = %d after step at max, want unchanged 100", got)
	}
}

func TestStepAtMin_DoesNotUnderflow(t *testing.T) {
	c, _, _ := newTestController(time.Hour)

	for i := 0; i < 10; i++ {
		c.StepBrightness(DirectionDown)
	}
	if got := c.State().Brightness; got != 3 {
		t.Fatalf("brightness = %d, want 3 before underflow check", got)
	}

	c.StepBrightness(DirectionDown)
	if got := c.State().Brightness; got != 3 {
		t.Errorf("brightness = %d after step at min, want unchanged 3", got)
	}
}

func TestStep_InvalidDirectionIsNoOp(t *testing.T) {
	c, endpoint, _ := newTestController(20 * time.Millisecond)
	before := c.State()

	c.StepBrightness(Direction("sideways"))
	c.StepTemperature(Direction(""))

	if got := c.State(); got != before {
		t.Errorf("state = %+v after invalid direction, want unchanged %+v", got, before)
	}
	if c.PendingSync() {
		t.Error("invalid direction armed a synchronization")
	}

	time.Sleep(100 * time.Millisecond)
	if got := endpoint.callCount(); got != 0 {
		t.Errorf("endpoint received %d calls after invalid direction, want 0", got)
	}
}

func TestStepBurst_SingleSyncWithLastState(t *testing.T) {
	c, endpoint, _ := newTestController(50 * time.Millisecond)

	// Five steps within the debounce window
	for i := 0; i < 5; i++ {
		c.StepBrightness(DirectionUp)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)

	if got := endpoint.callCount(); got != 1 {
		t.Fatalf("endpoint received %d calls for burst, want 1", got)
	}

	got := endpoint.lastCall()
	want := keylight.LightGroup{
		NumberOfLights: 1,
		Lights:         []keylight.Light{{On: 0, Brightness: 100, Temperature: 170}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}

func TestTogglePower_FiresImmediately(t *testing.T) {
	c, endpoint, _ := newTestController(time.Hour)

	c.TogglePower()

	if got := endpoint.callCount(); got != 1 {
		t.Fatalf("endpoint received %d calls after toggle, want 1 immediately", got)
	}
	if got := endpoint.lastCall().Lights[0].On; got != 1 {
		t.Errorf("payload on = %d, want 1", got)
	}

	c.TogglePower()
	if got := endpoint.lastCall().Lights[0].On; got != 0 {
		t.Errorf("payload on = %d after second toggle, want 0", got)
	}
}

func TestTogglePower_DoesNotCancelPendingStep(t *testing.T) {
	c, endpoint, _ := newTestController(80 * time.Millisecond)

	c.StepBrightness(DirectionUp)
	if !c.PendingSync() {
		t.Fatal("step did not arm a synchronization")
	}

	c.TogglePower()

	if !c.PendingSync() {
		t.Error("toggle cancelled the pending debounced synchronization")
	}
	if got := endpoint.callCount(); got != 1 {
		t.Fatalf("endpoint received %d calls right after toggle, want 1", got)
	}

	time.Sleep(300 * time.Millisecond)
	if got := endpoint.callCount(); got != 2 {
		t.Errorf("endpoint received %d calls in total, want 2 (toggle + debounced step)", got)
	}
}

func TestFailedSync_KeepsStateAndAllowsRetry(t *testing.T) {
	c, endpoint, notifier := newTestController(20 * time.Millisecond)
	endpoint.setErr(errors.New("connection refused"))

	c.TogglePower()

	if got := c.State().Power; got != true {
		t.Errorf("power = %v after failed sync, want true (state authoritative)", got)
	}

	notifier.mu.Lock()
	notified := len(notifier.messages)
	notifier.mu.Unlock()
	if notified != 1 {
		t.Errorf("notifier received %d messages, want 1", notified)
	}

	// Endpoint recovers; the next intent must schedule and fire normally
	endpoint.setErr(nil)
	c.StepBrightness(DirectionUp)
	time.Sleep(150 * time.Millisecond)

	if got := endpoint.callCount(); got != 2 {
		t.Fatalf("endpoint received %d calls, want 2 (failed toggle + recovered step)", got)
	}
	got := endpoint.lastCall()
	if got.Lights[0].Brightness != 60 || got.Lights[0].On != 1 {
		t.Errorf("recovered payload = %+v, want on=1 brightness=60", got.Lights[0])
	}
}

func TestSynchronizeNow_IdempotentPayload(t *testing.T) {
	c, endpoint, _ := newTestController(time.Hour)

	c.SynchronizeNow(context.Background())
	c.SynchronizeNow(context.Background())

	if got := endpoint.callCount(); got != 2 {
		t.Fatalf("endpoint received %d calls, want 2", got)
	}

	endpoint.mu.Lock()
	first, second := endpoint.calls[0], endpoint.calls[1]
	endpoint.mu.Unlock()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("payloads differ with unchanged state: %+v vs %+v", first, second)
	}
}

func repeat(d Direction, n int) []Direction {
	dirs := make([]Direction, n)
	for i := range dirs {
		dirs[i] = d
	}
	return dirs
}
