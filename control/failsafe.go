package control

// DefaultFailSafeCycles is how many idle cycles are tolerated before stopping.
const DefaultFailSafeCycles = 50

// FailSafe counts control cycles without a valid packet.
type FailSafe struct {
	limit int
	count int
}

func NewFailSafe(limit int) *FailSafe {
	return &FailSafe{limit: limit}
}

// Observe records one cycle. It returns true on the cycle the idle count
// passes the limit, and starts counting again from zero.
func (f *FailSafe) Observe(valid bool) bool {
	if valid {
		f.count = 0
		return false
	}
	f.count++
	if f.count > f.limit {
		f.count = 0
		return true
	}
	return false
}

// Reset clears the idle count.
func (f *FailSafe) Reset() { f.count = 0 }

func (f *FailSafe) SetLimit(limit int) { f.limit = limit }

func (f *FailSafe) Count() int { return f.count }
