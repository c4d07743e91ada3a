package settings

import (
	"errors"
	"fmt"
	"log"
	"sync"

	proto "roverc/protocol"
)

type Settings struct {
	DeadZone        float32 `yaml:"dead_zone"`        // unit:normalized stick travel
	FailSafeCycles  int32   `yaml:"fail_safe_cycles"` // unit:control cycles
	CyclePeriodUs   int32   `yaml:"cycle_period_us"`  // unit:us
	BindingCount    int32   `yaml:"binding_count"`    // unit:broadcasts
	BindingDelayMs  int32   `yaml:"binding_delay_ms"` // unit:ms
	Channel         uint8   `yaml:"channel"`          // radio channel, 0 = current
	ValidatePackets bool    `yaml:"validate_packets"`
}

var defaultSettings = Settings{
	DeadZone:        0.01,                          // unit:normalized stick travel
	FailSafeCycles:  50,                            // unit:control cycles
	CyclePeriodUs:   20,                            // unit:us
	BindingCount:    proto.DefaultBroadcastCount,   // unit:broadcasts
	BindingDelayMs:  proto.DefaultBroadcastDelayMs, // unit:ms
	Channel:         proto.DefaultChannel,
	ValidatePackets: true,
}

// Default returns the settings the rover boots with.
func Default() Settings { return defaultSettings }

func Validate(s Settings) error {
	if s.DeadZone < 0 || s.DeadZone > 0.5 {
		return fmt.Errorf("invalid dead zone: %f", s.DeadZone)
	}
	if s.FailSafeCycles < 1 || s.FailSafeCycles > 1000000 {
		return fmt.Errorf("invalid fail-safe cycles: %d", s.FailSafeCycles)
	}
	if s.CyclePeriodUs < 1 || s.CyclePeriodUs > 1000000 {
		return fmt.Errorf("invalid cycle period: %d", s.CyclePeriodUs)
	}
	if s.BindingCount < 0 || s.BindingCount > 1000 {
		return fmt.Errorf("invalid binding count: %d", s.BindingCount)
	}
	if s.BindingDelayMs < 1 || s.BindingDelayMs > 10000 {
		return fmt.Errorf("invalid binding delay: %d", s.BindingDelayMs)
	}
	if s.Channel > 14 {
		return fmt.Errorf("invalid channel: %d", s.Channel)
	}
	return nil
}

// Store holds the current settings and notifies subscribers on change.
type Store struct {
	mu        sync.Mutex
	current   Settings
	subscribe []func(s Settings) error
}

func NewStore() *Store {
	return &Store{current: defaultSettings}
}

func (st *Store) SubscribeClear() {
	st.mu.Lock()
	st.subscribe = nil
	st.mu.Unlock()
}

func (st *Store) SubscribeAdd(f func(s Settings) error) {
	st.mu.Lock()
	st.subscribe = append(st.subscribe, f)
	st.mu.Unlock()
}

// Restore pushes the stored settings to all subscribers. When they are
// rejected the defaults are applied instead and the error is returned,
// joined with the fallback's error if the defaults are rejected too.
func (st *Store) Restore() error {
	if err := st.Update(st.Get()); err != nil {
		if ferr := st.Update(defaultSettings); ferr != nil {
			log.Printf("[settings] defaults rejected: %v", ferr)
			return errors.Join(err, fmt.Errorf("restore defaults: %w", ferr))
		}
		return err
	}
	return nil
}

// Update validates s, notifies subscribers in order and, if none of them
// fails, makes s current.
func (st *Store) Update(s Settings) error {
	if err := Validate(s); err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, l := range st.subscribe {
		if err := l(s); err != nil {
			return fmt.Errorf("apply settings: %w", err)
		}
	}
	st.current = s
	return nil
}

func (st *Store) Get() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}
