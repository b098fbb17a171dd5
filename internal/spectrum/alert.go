package spectrum

// Latch holds the audio alert for Hold ticks after the last tick whose peak
// exceeded Threshold. It is edge-triggered: staying above the threshold
// re-arms the window but does not re-enter the alert.
type Latch struct {
	Threshold float64
	Hold      int

	trigger int
	armed   bool
}

// NewLatch creates a cleared latch.
func NewLatch(threshold float64, hold int) *Latch {
	return &Latch{Threshold: threshold, Hold: hold}
}

// Observe feeds the peak seen at tick. It reports whether the alert is active
// after the update and whether this tick moved it from clear to active.
func (l *Latch) Observe(tick int, peak float64) (active, entered bool) {
	if peak > l.Threshold {
		entered = !l.Active(tick)
		l.trigger = tick
		l.armed = true
	}
	return l.Active(tick), entered
}

// Active reports whether tick falls within the hold window.
func (l *Latch) Active(tick int) bool {
	return l.armed && tick >= l.trigger && tick-l.trigger <= l.Hold
}

// LastTrigger returns the most recent triggering tick.
func (l *Latch) LastTrigger() (int, bool) {
	return l.trigger, l.armed
}

// Reset clears the latch.
func (l *Latch) Reset() {
	l.trigger = 0
	l.armed = false
}

// VoiceMatch is the confidence shown next to an active alert, in percent.
func VoiceMatch(peak float64) int {
	return int(min(98, 90+peak*10))
}
