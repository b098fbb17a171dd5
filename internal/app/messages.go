package app

import "time"

// TickMsg requests the next frame. Gen ties it to the tick chain that
// scheduled it, so pausing and resuming never leaves two chains running.
type TickMsg struct {
	Gen  int
	Time time.Time
}
