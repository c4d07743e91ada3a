package control

// BindTrigger turns button samples into binding requests: once if the button
// is already held at power-on, then on every release. The release ending the
// power-on hold does not bind again.
type BindTrigger struct {
	held        bool
	skipRelease bool
}

// NewBindTrigger reports whether binding should run immediately.
func NewBindTrigger(pressedAtBoot bool) (*BindTrigger, bool) {
	return &BindTrigger{held: pressedAtBoot, skipRelease: pressedAtBoot}, pressedAtBoot
}

// Sample records the current button level and reports whether to bind now.
func (b *BindTrigger) Sample(pressed bool) bool {
	released := b.held && !pressed
	b.held = pressed
	if !released {
		return false
	}
	if b.skipRelease {
		b.skipRelease = false
		return false
	}
	return true
}
