// Package control runs the receive, mix and actuate cycle of the rover.
package control

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"roverc/joystick"
	"roverc/logger"
	"roverc/mixer"
	"roverc/settings"
)

// Actuator receives mixed commands.
type Actuator interface {
	Apply(cmd mixer.Command)
	Stop()
}

// Status is reported after every cycle that applied a command.
type Status struct {
	Throttle, Roll, Pitch, Yaw float32
	Mode                       mixer.Mode
	Flags                      joystick.Flags
	Speed, Angle               float32
}

type Rover struct {
	ch       *joystick.Channel
	mixer    *mixer.Mixer
	out      Actuator
	safe     *FailSafe
	period   time.Duration
	deadZone float32
	updates  chan settings.Settings
	reset    atomic.Bool

	// OnStatus, if set, is called from the loop goroutine.
	OnStatus func(Status)
}

func NewRover(ch *joystick.Channel, out Actuator) *Rover {
	return &Rover{
		ch:       ch,
		mixer:    mixer.New(),
		out:      out,
		safe:     NewFailSafe(DefaultFailSafeCycles),
		period:   time.Duration(settings.Default().CyclePeriodUs) * time.Microsecond,
		deadZone: settings.Default().DeadZone,
		updates:  make(chan settings.Settings, 1),
	}
}

// Step runs one control cycle and reports whether a packet was applied.
func (r *Rover) Step() bool {
	if r.reset.CompareAndSwap(true, false) {
		r.ch.ResetCalibration()
		r.ch.SetDeadZone(r.deadZone)
		r.safe.Reset()
		logger.Log("[rover] calibration reset")
	}
	f, err := r.ch.Unpack()
	if err == nil {
		r.ch.RecordSample(f)
		mode := mixer.ModeFor(f.Mode)
		throttle, roll, pitch, yaw := r.ch.Throttle(), r.ch.Roll(), r.ch.Pitch(), r.ch.Yaw()
		r.out.Apply(r.mixer.Mix(mode, throttle, roll, pitch, yaw))
		if r.OnStatus != nil {
			r.OnStatus(Status{
				Throttle: throttle,
				Roll:     roll,
				Pitch:    pitch,
				Yaw:      yaw,
				Mode:     mode,
				Flags:    r.ch.Flags(),
				Speed:    r.mixer.Speed(),
				Angle:    r.mixer.Angle(),
			})
		}
	}
	if r.safe.Observe(err == nil) {
		r.out.Stop()
		logger.Log("[rover] fail-safe stop")
	}
	return err == nil
}

// Reset discards the joystick calibration and the fail-safe count. It may be
// called from any goroutine and takes effect at the start of the next cycle.
func (r *Rover) Reset() { r.reset.Store(true) }

// Subscribe makes the loop follow settings changes published by st. Changes
// are picked up between cycles.
func (r *Rover) Subscribe(st *settings.Store) {
	st.SubscribeAdd(func(s settings.Settings) error {
		select {
		case <-r.updates:
		default:
		}
		r.updates <- s
		return nil
	})
}

func (r *Rover) apply(s settings.Settings) {
	r.deadZone = s.DeadZone
	r.ch.SetDeadZone(s.DeadZone)
	r.ch.SetValidation(s.ValidatePackets)
	r.safe.SetLimit(int(s.FailSafeCycles))
	r.period = time.Duration(s.CyclePeriodUs) * time.Microsecond
}

// Loop steps the rover every cycle period until ctx is done.
func (r *Rover) Loop(ctx context.Context) error {
	select {
	case s := <-r.updates:
		r.apply(s)
	default:
	}
	if r.period <= 0 {
		return errors.New("control: cycle period must be positive")
	}
	tick := time.NewTicker(r.period)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			r.out.Stop()
			return nil
		case s := <-r.updates:
			r.apply(s)
			tick.Reset(r.period)
		case <-tick.C:
			r.Step()
		}
	}
}

// Bind announces the receiver using the binding parameters in s. A newly
// bound joystick is calibrated from scratch.
func (r *Rover) Bind(ctx context.Context, b joystick.Broadcaster, s settings.Settings) error {
	delay := time.Duration(s.BindingDelayMs) * time.Millisecond
	if err := r.ch.BroadcastForBinding(ctx, b, int(s.BindingCount), delay); err != nil {
		return err
	}
	r.Reset()
	return nil
}
